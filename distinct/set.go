package distinct

import (
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/xxh3"

	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/internal/bytestream"
	"github.com/TJX2014/velox/vector"
)

// Set accumulates the distinct values of a fixed-width scalar column.
type Set[T vector.Native] struct {
	base base[T]
	a    *arena.Arena
}

// NewSet creates a scalar accumulator drawing its storage from a.
func NewSet[T vector.Native](a *arena.Arena) *Set[T] {
	return &Set[T]{
		base: newBase[T](scalarHash[T], func(x, y T) bool { return x == y }),
		a:    a,
	}
}

// AddValue adds the value of col at row. Nulls reserve the null slot on
// first occurrence; duplicate values and later nulls are no-ops.
func (s *Set[T]) AddValue(col vector.Column[T], row int) error {
	if col.IsNullAt(row) {
		s.base.addNull()
		return nil
	}
	_, err := s.base.unique.Insert(col.ValueAt(row), s.base.nextSlot(), s.a)
	return err
}

// AddValues adds every element of the nested row arr[row], read from the
// flattened element column values.
func (s *Set[T]) AddValues(arr *vector.ArrayColumn, row int, values vector.Column[T]) error {
	offset := arr.OffsetAt(row)
	for i := 0; i < arr.SizeAt(row); i++ {
		if err := s.AddValue(values, offset+i); err != nil {
			return err
		}
	}
	return nil
}

// AddSelected adds the value of every selected row.
func (s *Set[T]) AddSelected(col vector.Column[T], sel *roaring.Bitmap) error {
	it := sel.Iterator()
	for it.HasNext() {
		if err := s.AddValue(col, int(it.Next())); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of unique values including the null, if any.
func (s *Set[T]) Size() int {
	return s.base.size()
}

// ExtractValues writes every unique value to out at offset plus its slot
// index and marks the null slot, if any. Returns the number of slots
// written.
func (s *Set[T]) ExtractValues(out *vector.FlatVector[T], offset int) int {
	s.base.unique.Range(func(v T, slot int32) bool {
		out.Set(offset+int(slot), v)
		return true
	})
	if s.base.hasNull() {
		out.SetNull(offset + int(s.base.nullSlot))
	}
	return s.base.size()
}

// Serialize writes the accumulator's spill representation into out at
// row. Scalar payloads are positional: each value lands at the byte
// offset derived from its slot index, skipping the null slot, so the
// layout is independent of map iteration order.
func (s *Set[T]) Serialize(out *vector.BytesVector, row int) {
	valueSize := int(unsafe.Sizeof(*new(T)))
	count := s.base.unique.Len()

	buf := out.ReserveRawBytes(headerSize + count*valueSize)
	w := bytestream.NewWriter(buf)
	w.PutInt32(s.base.nullSlot)
	w.PutUint64(uint64(count))

	// The null slot is skipped in the positional layout; without a null
	// every slot is below this bound.
	nullPos := s.base.nullSlot
	if nullPos == NoNullSlot {
		nullPos = int32(count)
	}
	s.base.unique.Range(func(v T, slot int32) bool {
		pos := int(slot)
		if slot >= nullPos {
			pos--
		}
		putScalar(buf[headerSize+pos*valueSize:], v)
		return true
	})

	out.Publish(row, buf)
}

// Deserialize rebuilds the accumulator from serialized bytes. It must be
// called on a freshly constructed instance.
func (s *Set[T]) Deserialize(data []byte) error {
	valueSize := int(unsafe.Sizeof(*new(T)))

	r := bytestream.NewReader(data)
	s.base.readNullSlot(r)
	count := r.Uint64()

	total := count
	if s.base.hasNull() {
		total++
	}
	for i := uint64(0); i < total; i++ {
		if s.base.hasNull() && int32(i) == s.base.nullSlot {
			continue
		}
		v := getScalar[T](r.Bytes(valueSize))
		if _, err := s.base.unique.Insert(v, int32(i), s.a); err != nil {
			return err
		}
	}
	s.base.checkCount(count)
	return nil
}

// Free releases the accumulator's arena-backed storage. Call exactly
// once, before the arena's owner resets or frees it.
func (s *Set[T]) Free() {
	s.base.unique.Free(s.a)
}

var _ Accumulator = (*Set[int64])(nil)

func scalarHash[T vector.Native](v T) uint64 {
	b := unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)) //nolint:gosec // fixed-width value bytes
	return xxh3.Hash(b)
}

func putScalar[T vector.Native](dst []byte, v T) {
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)) //nolint:gosec // fixed-width value bytes
	copy(dst, src)
}

func getScalar[T vector.Native](src []byte) T {
	var v T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)) //nolint:gosec // fixed-width value bytes
	copy(dst, src)
	return v
}
