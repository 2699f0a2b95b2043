package distinct

import (
	"bytes"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/internal/bytestream"
	"github.com/TJX2014/velox/vector"
)

// ComplexSet accumulates the distinct values of a nested column (arrays,
// maps, rows). Values are compared by their canonical binary encoding:
// two values are the same element exactly when their encodings match
// byte for byte.
type ComplexSet struct {
	base base[entry]
	list *valueList
	// Serialized byte size, maintained incrementally so Serialize can
	// reserve the exact output length up front.
	bytes int
}

// NewComplexSet creates a nested-value accumulator drawing its storage
// from a.
func NewComplexSet(a *arena.Arena) *ComplexSet {
	list := newValueList(a)
	return &ComplexSet{
		base: newBase[entry](
			func(e entry) uint64 { return e.hash },
			func(x, y entry) bool {
				if x.hash != y.hash || x.size != y.size {
					return false
				}
				return bytes.Equal(list.view(x), list.view(y))
			},
		),
		list:  list,
		bytes: headerSize,
	}
}

// AddValue adds the value of col at row.
func (s *ComplexSet) AddValue(col *vector.ValueColumn, row int) error {
	if col.IsNullAt(row) {
		s.base.addNull()
		return nil
	}
	e, err := s.list.append(col.ValueAt(row))
	if err != nil {
		return err
	}
	return s.addEntry(e, s.base.nextSlot())
}

// AddValues adds every element of the nested row arr[row], read from the
// flattened element column values.
func (s *ComplexSet) AddValues(arr *vector.ArrayColumn, row int, values *vector.ValueColumn) error {
	offset := arr.OffsetAt(row)
	for i := 0; i < arr.SizeAt(row); i++ {
		if err := s.AddValue(values, offset+i); err != nil {
			return err
		}
	}
	return nil
}

// AddSelected adds the value of every selected row.
func (s *ComplexSet) AddSelected(col *vector.ValueColumn, sel *roaring.Bitmap) error {
	it := sel.Iterator()
	for it.HasNext() {
		if err := s.AddValue(col, int(it.Next())); err != nil {
			return err
		}
	}
	return nil
}

// addEntry inserts the freshly appended e at slot. Equality needs the
// payload resident in the arena, so the append happens first and is
// rolled back when the value turns out to be a duplicate.
func (s *ComplexSet) addEntry(e entry, slot int32) error {
	inserted, err := s.base.unique.Insert(e, slot, s.list.a)
	if err != nil {
		s.list.removeLast(e)
		return err
	}
	if !inserted {
		s.list.removeLast(e)
		return nil
	}
	s.bytes += 2*slotIndexSize + hashSize + int(e.size)
	return nil
}

// Size returns the number of unique values including the null, if any.
func (s *ComplexSet) Size() int {
	return s.base.size()
}

// ExtractValues decodes every unique value into out at offset plus its
// slot index and marks the null slot, if any. Returns the number of
// slots written.
func (s *ComplexSet) ExtractValues(out *vector.ValueVector, offset int) int {
	s.base.unique.Range(func(e entry, slot int32) bool {
		out.Set(offset+int(slot), s.list.read(e))
		return true
	})
	if s.base.hasNull() {
		out.SetNull(offset + int(s.base.nullSlot))
	}
	return s.base.size()
}

// Serialize writes the accumulator's spill representation into out at
// row. Each value carries its slot index, encoded length and hash; the
// hash rides along so Deserialize skips rehashing the payload.
func (s *ComplexSet) Serialize(out *vector.BytesVector, row int) {
	buf := out.ReserveRawBytes(s.bytes)
	w := bytestream.NewWriter(buf)
	w.PutInt32(s.base.nullSlot)
	w.PutUint64(uint64(s.base.unique.Len()))

	s.base.unique.Range(func(e entry, slot int32) bool {
		w.PutInt32(slot)
		w.PutInt32(int32(e.size)) //nolint:gosec // encodings fit int32 on the wire
		w.PutUint64(e.hash)
		w.Append(s.list.view(e))
		return true
	})
	if !w.Full() {
		panic("distinct: nested serialization shorter than tracked size")
	}

	out.Publish(row, buf)
}

// Deserialize rebuilds the accumulator from serialized bytes. It must be
// called on a freshly constructed instance.
func (s *ComplexSet) Deserialize(data []byte) error {
	r := bytestream.NewReader(data)
	s.base.readNullSlot(r)
	count := r.Uint64()

	for r.Remaining() > 0 {
		slot := r.Int32()
		size := int(r.Int32())
		hash := r.Uint64()
		e, err := s.list.appendSerialized(r.Bytes(size), hash)
		if err != nil {
			return err
		}
		if err := s.addEntry(e, slot); err != nil {
			return err
		}
	}
	s.base.checkCount(count)
	return nil
}

// Free releases the accumulator's arena-backed storage. Call exactly
// once, before the arena's owner resets or frees it.
func (s *ComplexSet) Free() {
	s.base.unique.Free(s.list.a)
	s.list.free()
}

var _ Accumulator = (*ComplexSet)(nil)
