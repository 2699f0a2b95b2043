package vector

import (
	"math"
	"sort"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents a 64-bit integer value.
	KindInt
	// KindFloat represents a 64-bit float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindArray represents an array of values.
	KindArray
	// KindMap represents a key-to-value mapping.
	KindMap
	// KindRow represents a struct-like ordered field list.
	KindRow
)

// MapEntry is one key/value pair of a KindMap value.
type MapEntry struct {
	Key Value
	Val Value
}

// Value is a nested value: a closed tagged union over the types a
// complex column may carry. Structural equality of two Values is defined
// as byte equality of their canonical encodings (see AppendBinary).
type Value struct {
	Kind  Kind
	I64   int64
	F64   float64
	Str   string
	B     bool
	Elems []Value    // KindArray and KindRow
	Pairs []MapEntry // KindMap
}

// Null returns a null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, I64: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, F64: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array returns an array value.
func Array(elems ...Value) Value { return Value{Kind: KindArray, Elems: elems} }

// Row returns a row (struct) value.
func Row(fields ...Value) Value { return Value{Kind: KindRow, Elems: fields} }

// Map returns a map value.
func Map(pairs ...MapEntry) Value { return Value{Kind: KindMap, Pairs: pairs} }

// ValueColumn is a Column[Value] over nested values.
type ValueColumn struct {
	values []Value
	nulls  *Validity
}

// NewValueColumn wraps values and nulls as a column. nulls may be nil.
func NewValueColumn(values []Value, nulls *Validity) *ValueColumn {
	return &ValueColumn{values: values, nulls: nulls}
}

// Len returns the row count.
func (c *ValueColumn) Len() int {
	return len(c.values)
}

// IsNullAt reports whether row is null.
func (c *ValueColumn) IsNullAt(row int) bool {
	return c.nulls.IsNull(row)
}

// ValueAt returns the value at row. Undefined for null rows.
func (c *ValueColumn) ValueAt(row int) Value {
	return c.values[row]
}

// quietNaN is the single NaN bit pattern used in canonical encodings.
var quietNaN = math.Float64bits(math.NaN())

// AppendBinary appends the canonical binary encoding of v to buf.
//
// The encoding is canonical: equal values (NaNs unified, -0 folded to
// +0, map entries ordered by encoded key) always produce identical bytes,
// so structural comparison reduces to byte comparison.
func (v Value) AppendBinary(buf []byte) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case KindNull:
	case KindBool:
		if v.B {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case KindInt:
		buf = appendUint64(buf, uint64(v.I64))
	case KindFloat:
		f := v.F64
		bits := math.Float64bits(f)
		if f != f {
			bits = quietNaN
		} else if f == 0 {
			bits = 0
		}
		buf = appendUint64(buf, bits)
	case KindString:
		buf = appendUvarint(buf, uint64(len(v.Str)))
		buf = append(buf, v.Str...)
	case KindArray, KindRow:
		buf = appendUvarint(buf, uint64(len(v.Elems)))
		for _, e := range v.Elems {
			buf = e.AppendBinary(buf)
		}
	case KindMap:
		buf = appendUvarint(buf, uint64(len(v.Pairs)))
		encoded := make([][2][]byte, len(v.Pairs))
		for i, p := range v.Pairs {
			encoded[i][0] = p.Key.AppendBinary(nil)
			encoded[i][1] = p.Val.AppendBinary(nil)
		}
		sort.Slice(encoded, func(i, j int) bool {
			return string(encoded[i][0]) < string(encoded[j][0])
		})
		for _, kv := range encoded {
			buf = append(buf, kv[0]...)
			buf = append(buf, kv[1]...)
		}
	default:
		panic("vector: encoding invalid value")
	}
	return buf
}

// Binary returns the canonical binary encoding of v.
func (v Value) Binary() []byte {
	return v.AppendBinary(nil)
}
