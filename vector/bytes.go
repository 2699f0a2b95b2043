package vector

// BytesVector is a writable output vector of raw variable-length
// payloads, such as serialized accumulator state headed for a spill.
//
// The reserve-then-publish protocol lets producers write a payload of
// precomputed size in place: ReserveRawBytes hands out a buffer of the
// exact length, the producer fills it, and Publish attaches it to a row
// without copying.
type BytesVector struct {
	rows  [][]byte
	nulls *Validity
}

// NewBytesVector creates a vector with room for n rows.
func NewBytesVector(n int) *BytesVector {
	return &BytesVector{
		rows:  make([][]byte, n),
		nulls: NewValidity(n),
	}
}

// Len returns the row count.
func (v *BytesVector) Len() int {
	return len(v.rows)
}

// ReserveRawBytes returns a zeroed buffer of exactly n bytes for
// in-place writing.
func (v *BytesVector) ReserveRawBytes(n int) []byte {
	return make([]byte, n)
}

// Publish attaches buf as the payload of pos without copying.
func (v *BytesVector) Publish(pos int, buf []byte) {
	v.rows[pos] = buf
}

// At returns the payload at pos.
func (v *BytesVector) At(pos int) []byte {
	return v.rows[pos]
}

// SetNull marks pos as null.
func (v *BytesVector) SetNull(pos int) {
	v.nulls.SetNull(pos)
}

// IsNullAt reports whether pos is null.
func (v *BytesVector) IsNullAt(pos int) bool {
	return v.nulls.IsNull(pos)
}
