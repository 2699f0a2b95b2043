package hashmap

import (
	"unsafe"

	"github.com/TJX2014/velox/arena"
)

const (
	initialCapacity = 16
	// Grow when size*8 >= capacity*6 (load factor 0.75).
	loadNum, loadDen = 6, 8
)

// Map is an open-addressing table from K to an int32 slot index. The
// bucket arrays live in arena memory; the Map header itself is an
// ordinary Go value.
type Map[K any] struct {
	hash func(K) uint64
	eq   func(K, K) bool

	keys  []K     // arena-backed, len == capacity
	slots []int32 // arena-backed, -1 marks an empty bucket
	mask  uint64
	size  int
	bytes int // arena bytes held by the current table
}

// New creates an empty map. No arena memory is held until the first
// insert.
func New[K any](hash func(K) uint64, eq func(K, K) bool) *Map[K] {
	return &Map[K]{hash: hash, eq: eq}
}

// Len returns the number of entries.
func (m *Map[K]) Len() int {
	return m.size
}

// Get returns the slot index stored for key.
func (m *Map[K]) Get(key K) (int32, bool) {
	if m.size == 0 {
		return 0, false
	}
	i := m.hash(key) & m.mask
	for {
		if m.slots[i] < 0 {
			return 0, false
		}
		if m.eq(m.keys[i], key) {
			return m.slots[i], true
		}
		i = (i + 1) & m.mask
	}
}

// Contains reports whether key is present.
func (m *Map[K]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Insert adds (key, slot) if key is absent and reports whether it
// inserted. A present key is left untouched, original slot included.
func (m *Map[K]) Insert(key K, slot int32, a *arena.Arena) (bool, error) {
	if len(m.slots) == 0 {
		if err := m.rehash(initialCapacity, a); err != nil {
			return false, err
		}
	} else if m.size*loadDen >= len(m.slots)*loadNum {
		if err := m.rehash(len(m.slots)*2, a); err != nil {
			return false, err
		}
	}

	i := m.hash(key) & m.mask
	for {
		if m.slots[i] < 0 {
			m.keys[i] = key
			m.slots[i] = slot
			m.size++
			return true, nil
		}
		if m.eq(m.keys[i], key) {
			return false, nil
		}
		i = (i + 1) & m.mask
	}
}

// Range calls fn for every entry until fn returns false. Iteration order
// is unspecified.
func (m *Map[K]) Range(fn func(key K, slot int32) bool) {
	for i := range m.slots {
		if m.slots[i] >= 0 {
			if !fn(m.keys[i], m.slots[i]) {
				return
			}
		}
	}
}

// Free releases the table's arena accounting. The map is empty and
// reusable afterwards (a later insert allocates a fresh table).
func (m *Map[K]) Free(a *arena.Arena) {
	if m.bytes > 0 {
		a.Release(m.bytes)
	}
	m.keys = nil
	m.slots = nil
	m.mask = 0
	m.size = 0
	m.bytes = 0
}

func (m *Map[K]) rehash(capacity int, a *arena.Arena) error {
	var zero K
	keySize := int(unsafe.Sizeof(zero))

	keysBytes := capacity * keySize
	slotsBytes := capacity * 4

	kb, err := a.AllocBytes(keysBytes)
	if err != nil {
		return err
	}
	sb, err := a.AllocBytes(slotsBytes)
	if err != nil {
		return err
	}

	// Arena memory may be recycled after a Reset; initialize every bucket.
	newKeys := unsafe.Slice((*K)(unsafe.Pointer(&kb[0])), capacity)   //nolint:gosec // off-heap table storage
	newSlots := unsafe.Slice((*int32)(unsafe.Pointer(&sb[0])), capacity) //nolint:gosec // off-heap table storage
	for i := range newSlots {
		newSlots[i] = -1
	}

	oldKeys, oldSlots := m.keys, m.slots
	oldBytes := m.bytes

	m.keys = newKeys
	m.slots = newSlots
	m.mask = uint64(capacity - 1)
	m.bytes = keysBytes + slotsBytes

	for i := range oldSlots {
		if oldSlots[i] >= 0 {
			j := m.hash(oldKeys[i]) & m.mask
			for m.slots[j] >= 0 {
				j = (j + 1) & m.mask
			}
			m.keys[j] = oldKeys[i]
			m.slots[j] = oldSlots[i]
		}
	}

	if oldBytes > 0 {
		a.Release(oldBytes)
	}
	return nil
}
