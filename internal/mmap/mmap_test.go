package mmap

import (
	"testing"
)

func TestMapAnon(t *testing.T) {
	m, err := MapAnon(4096)
	if err != nil {
		t.Fatalf("MapAnon failed: %v", err)
	}
	defer m.Close()

	b := m.Bytes()
	if len(b) != 4096 {
		t.Fatalf("expected 4096 bytes, got %d", len(b))
	}
	if m.Size() != 4096 {
		t.Errorf("expected size 4096, got %d", m.Size())
	}

	// Anonymous mappings are zero-filled and writable.
	for i := range b {
		if b[i] != 0 {
			t.Fatalf("byte %d not zero", i)
		}
	}
	b[0] = 0xAB
	b[4095] = 0xCD
	if b[0] != 0xAB || b[4095] != 0xCD {
		t.Error("write to mapping not visible")
	}
}

func TestMapAnon_InvalidSize(t *testing.T) {
	if _, err := MapAnon(0); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := MapAnon(-1); err == nil {
		t.Error("expected error for negative size")
	}
}

func TestMapping_CloseIdempotent(t *testing.T) {
	m, err := MapAnon(4096)
	if err != nil {
		t.Fatalf("MapAnon failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if m.Bytes() != nil {
		t.Error("Bytes should return nil after Close")
	}
}
