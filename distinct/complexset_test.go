package distinct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TJX2014/velox/vector"
)

func valueColumn(values []vector.Value, nullRows ...int) *vector.ValueColumn {
	nulls := vector.NewValidity(len(values))
	for _, row := range nullRows {
		nulls.SetNull(row)
	}
	return vector.NewValueColumn(values, nulls)
}

func addAllValues(t *testing.T, s *ComplexSet, col *vector.ValueColumn) {
	t.Helper()

	for row := 0; row < col.Len(); row++ {
		require.NoError(t, s.AddValue(col, row))
	}
}

func TestComplexSetAddValue(t *testing.T) {
	a := newTestArena(t)

	col := valueColumn([]vector.Value{
		vector.Array(vector.Int(1), vector.Int(2)),
		vector.Array(vector.Int(3)),
		vector.Array(vector.Int(1), vector.Int(2)),
	})

	s := NewComplexSet(a)
	defer s.Free()

	addAllValues(t, s, col)
	assert.Equal(t, 2, s.Size())
}

func TestComplexSetAddValues(t *testing.T) {
	a := newTestArena(t)

	// Two rows of a nested column over four flattened elements; the
	// duplicate array appears in both rows.
	elements := valueColumn([]vector.Value{
		vector.Array(vector.Int(1)),
		vector.Array(vector.Int(2)),
		vector.Array(vector.Int(2)),
		vector.Array(vector.Int(3)),
	})
	arr := vector.NewArrayColumn([]int32{0, 2}, []int32{2, 2}, vector.NewValidity(2))

	s := NewComplexSet(a)
	defer s.Free()

	require.NoError(t, s.AddValues(arr, 0, elements))
	require.NoError(t, s.AddValues(arr, 1, elements))

	assert.Equal(t, 3, s.Size())
}

func TestComplexSetDuplicateRollback(t *testing.T) {
	a := newTestArena(t)

	col := valueColumn([]vector.Value{
		vector.Array(vector.Int(1), vector.Int(2)),
	})

	s := NewComplexSet(a)
	defer s.Free()

	addAllValues(t, s, col)
	used := a.BytesUsed()
	stored := s.list.len()

	// The duplicate's speculative append must be rolled back.
	require.NoError(t, s.AddValue(col, 0))
	assert.Equal(t, used, a.BytesUsed())
	assert.Equal(t, stored, s.list.len())

	// The rollback rewinds the arena tail, so the next append reuses the
	// bytes the duplicate's encoding briefly occupied.
	scratch, err := s.list.append(vector.Array(vector.Int(3), vector.Int(4)))
	require.NoError(t, err)
	s.list.removeLast(scratch)
	kept, err := s.list.append(vector.Array(vector.Int(5), vector.Int(6)))
	require.NoError(t, err)
	assert.Equal(t, scratch.position, kept.position)
	s.list.removeLast(kept)
}

func TestComplexSetMapKeyOrder(t *testing.T) {
	a := newTestArena(t)

	// Maps compare by content, not by insertion order of their pairs.
	col := valueColumn([]vector.Value{
		vector.Map(
			vector.MapEntry{Key: vector.String("a"), Val: vector.Int(1)},
			vector.MapEntry{Key: vector.String("b"), Val: vector.Int(2)},
		),
		vector.Map(
			vector.MapEntry{Key: vector.String("b"), Val: vector.Int(2)},
			vector.MapEntry{Key: vector.String("a"), Val: vector.Int(1)},
		),
	})

	s := NewComplexSet(a)
	defer s.Free()

	addAllValues(t, s, col)
	assert.Equal(t, 1, s.Size())
}

func TestComplexSetWithNull(t *testing.T) {
	a := newTestArena(t)

	col := valueColumn([]vector.Value{
		vector.Row(vector.Int(1), vector.String("x")),
		vector.Null(),
		vector.Row(vector.Int(2), vector.String("y")),
		vector.Null(),
	}, 1, 3)

	s := NewComplexSet(a)
	defer s.Free()

	addAllValues(t, s, col)
	require.Equal(t, 3, s.Size())

	out := vector.NewValueVector(s.Size())
	require.Equal(t, 3, s.ExtractValues(out, 0))

	assert.Equal(t, vector.KindRow, out.ValueAt(0).Kind)
	assert.True(t, out.IsNullAt(1))
	assert.Equal(t, vector.KindRow, out.ValueAt(2).Kind)
}

func TestComplexSetSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		values   []vector.Value
		nullRows []int
	}{
		{
			name: "arrays",
			values: []vector.Value{
				vector.Array(vector.Int(1), vector.Int(2)),
				vector.Array(),
				vector.Array(vector.Int(1), vector.Int(2)),
			},
		},
		{
			name: "nested with null",
			values: []vector.Value{
				vector.Map(vector.MapEntry{Key: vector.Int(1), Val: vector.Array(vector.Bool(true))}),
				vector.Null(),
				vector.Row(vector.Float(2.5), vector.String("deep")),
			},
			nullRows: []int{1},
		},
		{name: "empty", values: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t)

			s := NewComplexSet(a)
			defer s.Free()

			addAllValues(t, s, valueColumn(tt.values, tt.nullRows...))

			out := vector.NewBytesVector(1)
			s.Serialize(out, 0)

			restored := NewComplexSet(a)
			defer restored.Free()
			require.NoError(t, restored.Deserialize(out.At(0)))

			require.Equal(t, s.Size(), restored.Size())

			want := vector.NewValueVector(s.Size())
			got := vector.NewValueVector(restored.Size())
			s.ExtractValues(want, 0)
			restored.ExtractValues(got, 0)
			for i := 0; i < s.Size(); i++ {
				assert.Equal(t, want.IsNullAt(i), got.IsNullAt(i), "slot %d", i)
				if !want.IsNullAt(i) {
					assert.Equal(t, want.ValueAt(i).Binary(), got.ValueAt(i).Binary(), "slot %d", i)
				}
			}
		})
	}
}

func TestComplexSetSerializedSizeTracked(t *testing.T) {
	a := newTestArena(t)

	s := NewComplexSet(a)
	defer s.Free()

	values := []vector.Value{
		vector.Array(vector.Int(1)),
		vector.Array(vector.Int(1), vector.Int(2)),
		vector.Array(vector.Int(1)),
	}
	addAllValues(t, s, valueColumn(values))

	out := vector.NewBytesVector(1)
	s.Serialize(out, 0)

	wantLen := headerSize
	for _, v := range []vector.Value{values[0], values[1]} {
		wantLen += 2*slotIndexSize + hashSize + len(v.Binary())
	}
	assert.Len(t, out.At(0), wantLen)
}

func TestComplexSetDeserializeIntoUsed(t *testing.T) {
	a := newTestArena(t)

	s := NewComplexSet(a)
	defer s.Free()
	addAllValues(t, s, valueColumn([]vector.Value{vector.Null()}, 0))

	out := vector.NewBytesVector(1)
	s.Serialize(out, 0)

	assert.Panics(t, func() {
		_ = s.Deserialize(out.At(0))
	})
}
