// Package vector provides the columnar value abstractions the
// accumulators read from and write to.
//
// Input sides: Column[T] is a decoded column accessor (null test plus
// typed value access), ArrayColumn describes nested rows as ranges over a
// flattened element column, and selection is expressed with roaring
// bitmaps at the accumulator API.
//
// Output sides: FlatVector[T] receives extracted scalar values,
// ValueVector receives extracted nested values, and BytesVector receives
// raw variable-length payloads such as serialized accumulator state.
//
// StringView is the 16-byte string handle used as a hash key: strings up
// to 12 bytes are stored inline in the view, longer ones reference
// payload bytes owned elsewhere (an input column or a string arena).
// Value is a closed tagged union modeling nested values (arrays, maps,
// rows) with a canonical binary encoding; structural equality of nested
// values is byte equality of their canonical encodings.
package vector
