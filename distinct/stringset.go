package distinct

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/internal/bytestream"
	"github.com/TJX2014/velox/vector"
)

// StringSet accumulates the distinct values of a string column. Payloads
// longer than the inline threshold are copied into the arena on first
// sight so the views held by the map outlive the input batch.
type StringSet struct {
	base  base[vector.StringView]
	store *stringStore
	// Serialized byte size, maintained incrementally so Serialize can
	// reserve the exact output length up front.
	bytes int
}

// NewStringSet creates a string accumulator drawing its storage from a.
func NewStringSet(a *arena.Arena) *StringSet {
	return &StringSet{
		base: newBase[vector.StringView](
			vector.StringView.Hash,
			vector.StringView.Equal,
		),
		store: newStringStore(a),
		bytes: headerSize,
	}
}

// AddValue adds the value of col at row. The payload is copied into the
// arena only when the value is new and not inline.
func (s *StringSet) AddValue(col *vector.StringColumn, row int) error {
	if col.IsNullAt(row) {
		s.base.addNull()
		return nil
	}
	return s.addView(col.ValueAt(row), s.base.nextSlot())
}

// AddValues adds every element of the nested row arr[row], read from the
// flattened element column values.
func (s *StringSet) AddValues(arr *vector.ArrayColumn, row int, values *vector.StringColumn) error {
	offset := arr.OffsetAt(row)
	for i := 0; i < arr.SizeAt(row); i++ {
		if err := s.AddValue(values, offset+i); err != nil {
			return err
		}
	}
	return nil
}

// AddSelected adds the value of every selected row.
func (s *StringSet) AddSelected(col *vector.StringColumn, sel *roaring.Bitmap) error {
	it := sel.Iterator()
	for it.HasNext() {
		if err := s.AddValue(col, int(it.Next())); err != nil {
			return err
		}
	}
	return nil
}

// addView inserts v at slot. Non-inline payloads are copied into the
// arena first, but only for values not already present: the contains
// probe keeps duplicates from bloating the store.
func (s *StringSet) addView(v vector.StringView, slot int32) error {
	if !v.IsInline() && !s.base.unique.Contains(v) {
		stored, err := s.store.append(v)
		if err != nil {
			return err
		}
		v = stored
	}
	inserted, err := s.base.unique.Insert(v, slot, s.store.a)
	if err != nil {
		return err
	}
	if inserted {
		s.bytes += 2*slotIndexSize + v.Len()
	}
	return nil
}

// addUnique inserts v at slot without checking for prior membership. Callers
// must guarantee v is not already present; spilled streams carry each
// unique value exactly once, so Deserialize copies payloads directly.
func (s *StringSet) addUnique(v vector.StringView, slot int32) error {
	if !v.IsInline() {
		stored, err := s.store.append(v)
		if err != nil {
			return err
		}
		v = stored
	}
	inserted, err := s.base.unique.Insert(v, slot, s.store.a)
	if err != nil {
		return err
	}
	if inserted {
		s.bytes += 2*slotIndexSize + v.Len()
	}
	return nil
}

// Size returns the number of unique values including the null, if any.
func (s *StringSet) Size() int {
	return s.base.size()
}

// ExtractValues writes every unique value to out at offset plus its slot
// index and marks the null slot, if any. Returns the number of slots
// written. The extracted views stay valid until Free.
func (s *StringSet) ExtractValues(out *vector.FlatVector[vector.StringView], offset int) int {
	s.base.unique.Range(func(v vector.StringView, slot int32) bool {
		out.Set(offset+int(slot), v)
		return true
	})
	if s.base.hasNull() {
		out.SetNull(offset + int(s.base.nullSlot))
	}
	return s.base.size()
}

// Serialize writes the accumulator's spill representation into out at
// row. String payloads vary in length, so each value carries its slot
// index and byte length explicitly.
func (s *StringSet) Serialize(out *vector.BytesVector, row int) {
	buf := out.ReserveRawBytes(s.bytes)
	w := bytestream.NewWriter(buf)
	w.PutInt32(s.base.nullSlot)
	w.PutUint64(uint64(s.base.unique.Len()))

	s.base.unique.Range(func(v vector.StringView, slot int32) bool {
		w.PutInt32(slot)
		w.PutInt32(int32(v.Len())) //nolint:gosec // lengths fit int32 on the wire
		w.Append(v.Bytes())
		return true
	})
	if !w.Full() {
		panic("distinct: string serialization shorter than tracked size")
	}

	out.Publish(row, buf)
}

// Deserialize rebuilds the accumulator from serialized bytes. It must be
// called on a freshly constructed instance.
func (s *StringSet) Deserialize(data []byte) error {
	r := bytestream.NewReader(data)
	s.base.readNullSlot(r)
	count := r.Uint64()

	for r.Remaining() > 0 {
		slot := r.Int32()
		length := int(r.Int32())
		if err := s.addUnique(vector.MakeStringView(r.Bytes(length)), slot); err != nil {
			return err
		}
	}
	s.base.checkCount(count)
	return nil
}

// Free releases the accumulator's arena-backed storage. Call exactly
// once, before the arena's owner resets or frees it.
func (s *StringSet) Free() {
	s.base.unique.Free(s.store.a)
	s.store.free()
}

var _ Accumulator = (*StringSet)(nil)
