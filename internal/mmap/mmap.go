package mmap

import (
	"errors"
	"sync/atomic"
)

// Mapping is an anonymous read-write memory mapping. It owns the mapped
// bytes and is responsible for unmapping them.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	unmap  func([]byte) error
}

// MapAnon creates an anonymous read-write mapping of the given size.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, errors.New("mmap: non-positive mapping size")
	}
	data, unmap, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, size: size, unmap: unmap}, nil
}

// Bytes returns the mapped byte slice. The slice is valid only until
// Close; accessing it afterwards is undefined behavior.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}
