package bytestream

import (
	"encoding/binary"
	"fmt"
)

// Reader consumes fixed-width little-endian values from a buffer.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) need(n int) {
	if r.off+n > len(r.buf) {
		panic(fmt.Sprintf("bytestream: read of %d bytes at offset %d exceeds buffer of %d", n, r.off, len(r.buf)))
	}
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() int32 {
	r.need(4)
	v := int32(binary.LittleEndian.Uint32(r.buf[r.off:]))
	r.off += 4
	return v
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	r.need(4)
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() uint64 {
	r.need(8)
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

// Bytes reads the next n bytes without copying.
func (r *Reader) Bytes(n int) []byte {
	r.need(n)
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Writer appends fixed-width little-endian values to a pre-sized buffer.
// Writing past the end panics: the buffer length is the precomputed
// serialized size, and overflow means that computation was wrong.
type Writer struct {
	buf []byte
	off int
}

// NewWriter returns a Writer over buf. len(buf) is the write capacity.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) room(n int) {
	if w.off+n > len(w.buf) {
		panic(fmt.Sprintf("bytestream: write of %d bytes at offset %d exceeds precomputed size %d", n, w.off, len(w.buf)))
	}
}

// PutInt32 writes a little-endian int32.
func (w *Writer) PutInt32(v int32) {
	w.room(4)
	binary.LittleEndian.PutUint32(w.buf[w.off:], uint32(v))
	w.off += 4
}

// PutUint32 writes a little-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	w.room(4)
	binary.LittleEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

// PutUint64 writes a little-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	w.room(8)
	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
}

// Append copies b into the buffer.
func (w *Writer) Append(b []byte) {
	w.room(len(b))
	copy(w.buf[w.off:], b)
	w.off += len(b)
}

// Reserve returns the next n bytes for in-place writing and advances the
// offset past them.
func (w *Writer) Reserve(n int) []byte {
	w.room(n)
	b := w.buf[w.off : w.off+n : w.off+n]
	w.off += n
	return b
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int {
	return w.off
}

// Full reports whether every byte of the buffer has been written.
func (w *Writer) Full() bool {
	return w.off == len(w.buf)
}
