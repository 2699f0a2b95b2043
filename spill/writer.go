package spill

import (
	"context"
	"fmt"
	"io"

	"github.com/TJX2014/velox/resource"
)

// Writer frames payloads into blocks and appends them to an underlying
// writer, pacing output through a resource controller when one is set.
type Writer struct {
	w       io.Writer
	codec   Codec
	ctrl    *resource.Controller
	written int64
	blocks  int
}

// NewWriter creates a block writer. ctrl may be nil to write unpaced.
func NewWriter(w io.Writer, codec Codec, ctrl *resource.Controller) *Writer {
	return &Writer{w: w, codec: codec, ctrl: ctrl}
}

// WriteBlock frames payload and appends the block. The context bounds
// the wait for spill bandwidth.
func (w *Writer) WriteBlock(ctx context.Context, payload []byte) error {
	block, err := Encode(payload, w.codec)
	if err != nil {
		return err
	}
	if err := w.ctrl.AcquireSpill(ctx, len(block)); err != nil {
		return fmt.Errorf("spill: acquiring bandwidth: %w", err)
	}
	n, err := w.w.Write(block)
	w.written += int64(n)
	if err != nil {
		return fmt.Errorf("spill: writing block: %w", err)
	}
	w.blocks++
	return nil
}

// BytesWritten returns the total framed bytes written.
func (w *Writer) BytesWritten() int64 {
	return w.written
}

// Blocks returns the number of blocks written.
func (w *Writer) Blocks() int {
	return w.blocks
}

// Reader iterates the blocks of a byte stream produced by Writer.
type Reader struct {
	rest []byte
}

// NewReader creates a block reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{rest: data}
}

// Next verifies and returns the next payload, or io.EOF after the last
// block.
func (r *Reader) Next() ([]byte, error) {
	if len(r.rest) == 0 {
		return nil, io.EOF
	}
	payload, rest, err := Decode(r.rest)
	if err != nil {
		return nil, err
	}
	r.rest = rest
	return payload, nil
}
