package vector

// Native is the set of fixed-width scalar types a column may carry.
type Native interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Column is a decoded column accessor: null test plus typed value access
// by row.
type Column[T any] interface {
	Len() int
	IsNullAt(row int) bool
	ValueAt(row int) T
}

// FlatColumn is an in-memory Column backed by a value slice and an
// optional null mask.
type FlatColumn[T any] struct {
	values []T
	nulls  *Validity
}

// NewFlatColumn wraps values and nulls as a column. nulls may be nil.
func NewFlatColumn[T any](values []T, nulls *Validity) *FlatColumn[T] {
	return &FlatColumn[T]{values: values, nulls: nulls}
}

// Len returns the row count.
func (c *FlatColumn[T]) Len() int {
	return len(c.values)
}

// IsNullAt reports whether row is null.
func (c *FlatColumn[T]) IsNullAt(row int) bool {
	return c.nulls.IsNull(row)
}

// ValueAt returns the value at row. Undefined for null rows.
func (c *FlatColumn[T]) ValueAt(row int) T {
	return c.values[row]
}

// ArrayColumn describes nested (array-like) rows: each top-level row is
// the contiguous range [OffsetAt(row), OffsetAt(row)+SizeAt(row)) of a
// flattened element column.
type ArrayColumn struct {
	offsets []int32
	sizes   []int32
	nulls   *Validity
}

// NewArrayColumn wraps per-row element offsets and sizes.
func NewArrayColumn(offsets, sizes []int32, nulls *Validity) *ArrayColumn {
	if len(offsets) != len(sizes) {
		panic("vector: offsets and sizes length mismatch")
	}
	return &ArrayColumn{offsets: offsets, sizes: sizes, nulls: nulls}
}

// Len returns the row count.
func (c *ArrayColumn) Len() int {
	return len(c.offsets)
}

// IsNullAt reports whether row is null.
func (c *ArrayColumn) IsNullAt(row int) bool {
	return c.nulls.IsNull(row)
}

// OffsetAt returns the start of row's element range.
func (c *ArrayColumn) OffsetAt(row int) int {
	return int(c.offsets[row])
}

// SizeAt returns the element count of row.
func (c *ArrayColumn) SizeAt(row int) int {
	return int(c.sizes[row])
}
