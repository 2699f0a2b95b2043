package velox

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TJX2014/velox/spill"
	"github.com/TJX2014/velox/vector"
)

func int64Column(values []int64, nullRows ...int) *vector.FlatColumn[int64] {
	nulls := vector.NewValidity(len(values))
	for _, row := range nullRows {
		nulls.SetNull(row)
	}
	return vector.NewFlatColumn(values, nulls)
}

func TestAggregatorAccumulate(t *testing.T) {
	agg, err := New()
	require.NoError(t, err)
	defer agg.Close()

	set, err := NewSet[int64](agg)
	require.NoError(t, err)

	col := int64Column([]int64{5, 0, 3, 5}, 1)
	for row := 0; row < col.Len(); row++ {
		require.NoError(t, set.AddValue(col, row))
	}

	assert.Equal(t, 3, set.Size())
	assert.Positive(t, agg.MemoryUsage())
}

func TestAggregatorSpillRestore(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	agg, err := New(
		WithSpillCodec(spill.CodecZSTD),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	defer agg.Close()

	set, err := NewSet[int64](agg)
	require.NoError(t, err)
	strs, err := agg.NewStringSet()
	require.NoError(t, err)

	intCol := int64Column([]int64{1, 2, 1, 3})
	for row := 0; row < intCol.Len(); row++ {
		require.NoError(t, set.AddValue(intCol, row))
	}
	strCol := vector.NewStringColumn([]string{"a", "bb", "a"}, vector.NewValidity(3))
	for row := 0; row < strCol.Len(); row++ {
		require.NoError(t, strs.AddValue(strCol, row))
	}

	var buf bytes.Buffer
	written, err := agg.Spill(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), written)
	require.Equal(t, int64(1), metrics.SpillCount.Load())
	require.Equal(t, written, metrics.SpillBytes.Load())

	restoredAgg, err := New()
	require.NoError(t, err)
	defer restoredAgg.Close()

	restoredSet, err := NewSet[int64](restoredAgg)
	require.NoError(t, err)
	restoredStrs, err := restoredAgg.NewStringSet()
	require.NoError(t, err)

	require.NoError(t, restoredAgg.Restore(buf.Bytes()))
	assert.Equal(t, 3, restoredSet.Size())
	assert.Equal(t, 2, restoredStrs.Size())
}

func TestAggregatorRestoreMismatch(t *testing.T) {
	agg, err := New()
	require.NoError(t, err)
	defer agg.Close()

	_, err = NewSet[int64](agg)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = agg.Spill(context.Background(), &buf)
	require.NoError(t, err)

	// Two accumulators registered, one spilled state.
	restoredAgg, err := New()
	require.NoError(t, err)
	defer restoredAgg.Close()

	_, err = NewSet[int64](restoredAgg)
	require.NoError(t, err)
	_, err = restoredAgg.NewStringSet()
	require.NoError(t, err)

	err = restoredAgg.Restore(buf.Bytes())
	var mismatch *ErrAccumulatorMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Expected)
	assert.Equal(t, 1, mismatch.Actual)
}

func TestAggregatorRestoreTrailingGarbage(t *testing.T) {
	agg, err := New()
	require.NoError(t, err)
	defer agg.Close()

	set, err := NewSet[int64](agg)
	require.NoError(t, err)
	require.NoError(t, set.AddValue(int64Column([]int64{7}), 0))

	var buf bytes.Buffer
	_, err = agg.Spill(context.Background(), &buf)
	require.NoError(t, err)

	stream := append(buf.Bytes(), bytes.Repeat([]byte{0xAA}, 32)...)

	restoredAgg, err := New()
	require.NoError(t, err)
	defer restoredAgg.Close()

	_, err = NewSet[int64](restoredAgg)
	require.NoError(t, err)

	assert.ErrorIs(t, restoredAgg.Restore(stream), spill.ErrBadMagic)
}

func TestAggregatorMemoryLimit(t *testing.T) {
	// One chunk fits the budget, growth beyond it must fail.
	agg, err := New(
		WithChunkSize(64<<10),
		WithMemoryLimit(64<<10),
	)
	require.NoError(t, err)
	defer agg.Close()

	set, err := NewSet[int64](agg)
	require.NoError(t, err)

	values := make([]int64, 1<<16)
	for i := range values {
		values[i] = int64(i)
	}
	col := int64Column(values)

	var addErr error
	for row := 0; row < col.Len(); row++ {
		if addErr = set.AddValue(col, row); addErr != nil {
			break
		}
	}
	require.Error(t, addErr)
}

func TestAggregatorClose(t *testing.T) {
	agg, err := New()
	require.NoError(t, err)

	_, err = agg.NewComplexSet()
	require.NoError(t, err)

	require.NoError(t, agg.Close())
	require.NoError(t, agg.Close())

	_, err = NewSet[int64](agg)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = agg.Spill(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, agg.Restore(nil), ErrClosed)
}
