package vector

import "math/bits"

// Validity is a word-packed null mask. A set bit marks a null row.
type Validity struct {
	words []uint64
	n     int
}

// NewValidity creates a mask covering n rows, all non-null.
func NewValidity(n int) *Validity {
	return &Validity{
		words: make([]uint64, (n+63)/64),
		n:     n,
	}
}

// SetNull marks row as null.
func (v *Validity) SetNull(row int) {
	v.grow(row)
	v.words[row>>6] |= 1 << (uint(row) & 63)
}

// IsNull reports whether row is null.
func (v *Validity) IsNull(row int) bool {
	if v == nil || row < 0 || row>>6 >= len(v.words) {
		return false
	}
	return v.words[row>>6]&(1<<(uint(row)&63)) != 0
}

// NullCount returns the number of null rows.
func (v *Validity) NullCount() int {
	if v == nil {
		return 0
	}
	count := 0
	for _, w := range v.words {
		count += bits.OnesCount64(w)
	}
	return count
}

func (v *Validity) grow(row int) {
	need := row>>6 + 1
	if need > len(v.words) {
		grown := make([]uint64, need)
		copy(grown, v.words)
		v.words = grown
	}
	if row >= v.n {
		v.n = row + 1
	}
}
