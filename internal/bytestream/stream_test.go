package bytestream

import (
	"testing"
)

func TestRoundTrip(t *testing.T) {
	buf := make([]byte, 4+8+4+3)
	w := NewWriter(buf)
	w.PutInt32(-1)
	w.PutUint64(42)
	w.PutUint32(7)
	w.Append([]byte("abc"))

	if !w.Full() {
		t.Fatalf("writer not full: offset %d of %d", w.Offset(), len(buf))
	}

	r := NewReader(buf)
	if v := r.Int32(); v != -1 {
		t.Errorf("Int32 = %d, want -1", v)
	}
	if v := r.Uint64(); v != 42 {
		t.Errorf("Uint64 = %d, want 42", v)
	}
	if v := r.Uint32(); v != 7 {
		t.Errorf("Uint32 = %d, want 7", v)
	}
	if b := r.Bytes(3); string(b) != "abc" {
		t.Errorf("Bytes = %q, want abc", b)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestWriter_OverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overflow")
		}
	}()
	w := NewWriter(make([]byte, 3))
	w.PutInt32(1)
}

func TestReader_ShortBufferPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on short read")
		}
	}()
	r := NewReader([]byte{1, 2})
	r.Uint64()
}

func TestWriter_Reserve(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	b := w.Reserve(8)
	copy(b, "12345678")
	if string(buf) != "12345678" {
		t.Errorf("reserve did not alias buffer: %q", buf)
	}
	if !w.Full() {
		t.Error("writer should be full")
	}
}
