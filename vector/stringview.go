package vector

import (
	"unsafe"

	"github.com/zeebo/xxh3"
)

// StringViewInlineSize is the longest payload stored inside the view
// itself. Longer payloads are referenced by pointer.
const StringViewInlineSize = 12

// StringView is a fixed-size string handle. Up to StringViewInlineSize
// bytes live inline (prefix plus tail); longer payloads keep the first
// four bytes in the prefix for cheap inequality checks and point at
// externally owned bytes.
//
// A non-inline view is only as durable as the memory behind data:
// views over caller-owned input are call-scoped, and only views over
// arena-owned copies may be retained.
type StringView struct {
	size   uint32
	prefix [4]byte
	tail   [8]byte
	data   unsafe.Pointer // nil when inline
}

// MakeStringView creates a view over b. Payloads up to
// StringViewInlineSize bytes are copied into the view; longer ones are
// referenced, and b must stay alive as long as the view.
func MakeStringView(b []byte) StringView {
	v := StringView{size: uint32(len(b))}
	if len(b) <= StringViewInlineSize {
		n := copy(v.prefix[:], b)
		if n < len(b) {
			copy(v.tail[:], b[n:])
		}
		return v
	}
	copy(v.prefix[:], b[:4])
	v.data = unsafe.Pointer(&b[0])
	return v
}

// MakeStringViewFromString creates a view over s without copying the
// payload of non-inline strings. s must stay alive as long as the view.
func MakeStringViewFromString(s string) StringView {
	v := StringView{size: uint32(len(s))}
	if len(s) <= StringViewInlineSize {
		n := copy(v.prefix[:], s)
		if n < len(s) {
			copy(v.tail[:], s[n:])
		}
		return v
	}
	copy(v.prefix[:], s[:4])
	v.data = unsafe.Pointer(unsafe.StringData(s))
	return v
}

// Len returns the payload length in bytes.
func (v StringView) Len() int {
	return int(v.size)
}

// IsInline reports whether the payload is stored inside the view.
func (v StringView) IsInline() bool {
	return v.size <= StringViewInlineSize
}

// Bytes returns the payload. Inline payloads are copied out; non-inline
// payloads alias the referenced memory.
func (v StringView) Bytes() []byte {
	if v.IsInline() {
		b := make([]byte, v.size)
		n := copy(b, v.prefix[:min(int(v.size), 4)])
		copy(b[n:], v.tail[:])
		return b
	}
	return unsafe.Slice((*byte)(v.data), v.size) //nolint:gosec // view over live payload
}

// String returns the payload as a string.
func (v StringView) String() string {
	if v.IsInline() {
		return string(v.Bytes())
	}
	return unsafe.String((*byte)(v.data), v.size) //nolint:gosec // view over live payload
}

// Equal reports payload equality.
func (v StringView) Equal(o StringView) bool {
	if v.size != o.size || v.prefix != o.prefix {
		return false
	}
	if v.IsInline() {
		return v.tail == o.tail
	}
	if v.data == o.data {
		return true
	}
	a := unsafe.Slice((*byte)(v.data), v.size) //nolint:gosec // view over live payload
	b := unsafe.Slice((*byte)(o.data), o.size) //nolint:gosec // view over live payload
	return string(a) == string(b)
}

// Hash returns the xxh3 hash of the payload.
func (v StringView) Hash() uint64 {
	if v.IsInline() {
		var buf [StringViewInlineSize]byte
		n := copy(buf[:], v.prefix[:min(int(v.size), 4)])
		copy(buf[n:], v.tail[:])
		return xxh3.Hash(buf[:v.size])
	}
	return xxh3.Hash(unsafe.Slice((*byte)(v.data), v.size)) //nolint:gosec // view over live payload
}

// StringColumn is a Column[StringView] over Go strings. The column keeps
// the backing strings alive, so views handed out stay valid for the
// column's lifetime.
type StringColumn struct {
	strs  []string
	views []StringView
	nulls *Validity
}

// NewStringColumn builds a column over strs. nulls may be nil.
func NewStringColumn(strs []string, nulls *Validity) *StringColumn {
	views := make([]StringView, len(strs))
	for i, s := range strs {
		views[i] = MakeStringViewFromString(s)
	}
	return &StringColumn{strs: strs, views: views, nulls: nulls}
}

// Len returns the row count.
func (c *StringColumn) Len() int {
	return len(c.views)
}

// IsNullAt reports whether row is null.
func (c *StringColumn) IsNullAt(row int) bool {
	return c.nulls.IsNull(row)
}

// ValueAt returns the view at row. Undefined for null rows.
func (c *StringColumn) ValueAt(row int) StringView {
	return c.views[row]
}
