package hashmap

import (
	"encoding/binary"
	"testing"

	"github.com/zeebo/xxh3"

	"github.com/TJX2014/velox/arena"
)

func newInt64Map() *Map[int64] {
	return New[int64](
		func(v int64) uint64 {
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(v))
			return xxh3.Hash(b[:])
		},
		func(a, b int64) bool { return a == b },
	)
}

func TestMap_InsertGet(t *testing.T) {
	a, err := arena.New(0)
	if err != nil {
		t.Fatalf("arena.New failed: %v", err)
	}
	defer a.Free()

	m := newInt64Map()

	inserted, err := m.Insert(5, 0, a)
	if err != nil || !inserted {
		t.Fatalf("Insert(5) = %v, %v", inserted, err)
	}
	inserted, err = m.Insert(3, 1, a)
	if err != nil || !inserted {
		t.Fatalf("Insert(3) = %v, %v", inserted, err)
	}

	// Duplicate insert is a no-op and keeps the original slot.
	inserted, err = m.Insert(5, 99, a)
	if err != nil {
		t.Fatalf("Insert dup failed: %v", err)
	}
	if inserted {
		t.Error("duplicate insert should report false")
	}
	if slot, ok := m.Get(5); !ok || slot != 0 {
		t.Errorf("Get(5) = %d, %v; want 0, true", slot, ok)
	}

	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if m.Contains(7) {
		t.Error("Contains(7) should be false")
	}
}

func TestMap_GrowthKeepsEntries(t *testing.T) {
	a, err := arena.New(0)
	if err != nil {
		t.Fatalf("arena.New failed: %v", err)
	}
	defer a.Free()

	m := newInt64Map()
	const n = 10000
	for i := int64(0); i < n; i++ {
		if _, err := m.Insert(i*7919, int32(i), a); err != nil {
			t.Fatalf("Insert failed at %d: %v", i, err)
		}
	}
	if m.Len() != n {
		t.Fatalf("Len = %d, want %d", m.Len(), n)
	}
	for i := int64(0); i < n; i++ {
		slot, ok := m.Get(i * 7919)
		if !ok || slot != int32(i) {
			t.Fatalf("Get(%d) = %d, %v; want %d, true", i*7919, slot, ok, i)
		}
	}
}

func TestMap_RangeVisitsAll(t *testing.T) {
	a, err := arena.New(0)
	if err != nil {
		t.Fatalf("arena.New failed: %v", err)
	}
	defer a.Free()

	m := newInt64Map()
	for i := int64(0); i < 100; i++ {
		if _, err := m.Insert(i, int32(i), a); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	seen := make(map[int64]int32)
	m.Range(func(k int64, slot int32) bool {
		seen[k] = slot
		return true
	})
	if len(seen) != 100 {
		t.Fatalf("Range visited %d entries, want 100", len(seen))
	}
	for k, slot := range seen {
		if int32(k) != slot {
			t.Errorf("entry %d has slot %d", k, slot)
		}
	}
}

func TestMap_FreeReleasesAccounting(t *testing.T) {
	a, err := arena.New(0)
	if err != nil {
		t.Fatalf("arena.New failed: %v", err)
	}
	defer a.Free()

	before := a.BytesUsed()
	m := newInt64Map()
	for i := int64(0); i < 1000; i++ {
		if _, err := m.Insert(i, int32(i), a); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	m.Free(a)

	if a.BytesUsed() != before {
		t.Errorf("expected %d bytes used after Free, got %d", before, a.BytesUsed())
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d after Free, want 0", m.Len())
	}
}
