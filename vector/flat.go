package vector

// FlatVector is a writable output vector of fixed-width values.
type FlatVector[T any] struct {
	values []T
	nulls  *Validity
}

// NewFlatVector creates a vector with room for n rows.
func NewFlatVector[T any](n int) *FlatVector[T] {
	return &FlatVector[T]{
		values: make([]T, n),
		nulls:  NewValidity(n),
	}
}

// Len returns the row count.
func (v *FlatVector[T]) Len() int {
	return len(v.values)
}

// Set writes value at pos and clears its null flag.
func (v *FlatVector[T]) Set(pos int, value T) {
	v.values[pos] = value
}

// SetNull marks pos as null.
func (v *FlatVector[T]) SetNull(pos int) {
	v.nulls.SetNull(pos)
}

// IsNullAt reports whether pos is null.
func (v *FlatVector[T]) IsNullAt(pos int) bool {
	return v.nulls.IsNull(pos)
}

// ValueAt returns the value at pos. Undefined for null rows.
func (v *FlatVector[T]) ValueAt(pos int) T {
	return v.values[pos]
}

// ValueVector is a writable output vector of nested values.
type ValueVector struct {
	values []Value
	nulls  *Validity
}

// NewValueVector creates a vector with room for n rows.
func NewValueVector(n int) *ValueVector {
	return &ValueVector{
		values: make([]Value, n),
		nulls:  NewValidity(n),
	}
}

// Len returns the row count.
func (v *ValueVector) Len() int {
	return len(v.values)
}

// Set writes value at pos.
func (v *ValueVector) Set(pos int, value Value) {
	v.values[pos] = value
}

// SetNull marks pos as null.
func (v *ValueVector) SetNull(pos int) {
	v.nulls.SetNull(pos)
}

// IsNullAt reports whether pos is null.
func (v *ValueVector) IsNullAt(pos int) bool {
	return v.nulls.IsNull(pos)
}

// ValueAt returns the value at pos. Undefined for null rows.
func (v *ValueVector) ValueAt(pos int) Value {
	return v.values[pos]
}
