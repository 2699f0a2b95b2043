package arena

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/TJX2014/velox/internal/conv"
	"github.com/TJX2014/velox/internal/mmap"
)

// MemoryAcquirer gates arena growth against an external budget.
// AcquireMemory must not block; it either reserves the amount or fails.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
	// ErrClosed is returned when allocating from a freed arena.
	ErrClosed = errors.New("arena: closed")
	// ErrAllocTooLarge is returned when a single allocation exceeds the chunk size.
	ErrAllocTooLarge = errors.New("arena: allocation exceeds chunk size")
)

const (
	// DefaultChunkSize is the default size of a chunk (1MB).
	DefaultChunkSize = 1024 * 1024
	// DefaultAlignment is the default memory alignment (8 bytes).
	DefaultAlignment = 8
	// MaxChunks limits the number of chunks. With 1MB chunks this caps the
	// addressable space at 64GB.
	MaxChunks = 65536
)

// Stats tracks arena memory usage.
//
//   - BytesReserved: memory currently mapped from the OS
//   - BytesUsed: bytes handed out to live allocations (Release subtracts)
//   - ActiveChunks: chunks currently held
//   - TotalAllocs: cumulative allocation count
type Stats struct {
	ChunksAllocated uint64
	BytesReserved   uint64
	BytesUsed       uint64
	ActiveChunks    uint64
	TotalAllocs     uint64
}

type atomicStats struct {
	ChunksAllocated atomic.Uint64
	BytesReserved   atomic.Uint64
	BytesUsed       atomic.Int64
	ActiveChunks    atomic.Uint64
	TotalAllocs     atomic.Uint64
}

type chunk struct {
	data    []byte
	mapping *mmap.Mapping
	offset  atomic.Int64 // accessed concurrently without locks
	index   uint32
}

// Arena is a chunked bump allocator backed by anonymous mappings.
type Arena struct {
	chunkSize int
	chunkBits int    // power of 2 exponent for chunk size
	chunkMask uint64 // mask for offset within chunk
	alignment int
	chunks    [MaxChunks]atomic.Pointer[chunk]
	chunkCnt  atomic.Uint32
	current   atomic.Pointer[chunk]
	mu        sync.Mutex // protects growth
	stats     atomicStats
	acquirer  MemoryAcquirer
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithMemoryAcquirer sets the memory acquirer for the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// New creates an Arena with the given chunk size (rounded up to a power
// of two). A non-positive size selects DefaultChunkSize.
func New(chunkSize int, opts ...Option) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < 4096 {
		chunkSize = 4096 // at least one page per mapping
	}
	chunkBits := bits.Len(uint(chunkSize - 1))
	chunkSize = 1 << chunkBits

	chunkMask, err := conv.IntToUint64(chunkSize - 1)
	if err != nil {
		return nil, err
	}

	a := &Arena{
		chunkSize: chunkSize,
		chunkBits: chunkBits,
		chunkMask: chunkMask,
		alignment: DefaultAlignment,
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.allocateChunk(); err != nil {
		return nil, err
	}
	// Reserve offset 0 so it can serve as a null handle.
	if _, _, err := a.Alloc(1); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) allocateChunk() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocateChunkLocked()
}

func (a *Arena) allocateChunkLocked() error {
	idx := a.chunkCnt.Load()
	if idx >= MaxChunks {
		return ErrMaxChunksExceeded
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(a.chunkSize)); err != nil {
			return err
		}
	}

	mapping, err := mmap.MapAnon(a.chunkSize)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(a.chunkSize))
		}
		return fmt.Errorf("arena: mapping chunk: %w", err)
	}

	newChunk := &chunk{
		data:    mapping.Bytes(),
		mapping: mapping,
		index:   idx,
	}

	// Get() reads chunk pointers lock-free; publish before bumping the count.
	a.chunks[idx].Store(newChunk)

	a.stats.ChunksAllocated.Add(1)
	chunkSizeU64, _ := conv.IntToUint64(a.chunkSize)
	a.stats.BytesReserved.Add(chunkSizeU64)
	a.stats.ActiveChunks.Add(1)

	a.chunkCnt.Add(1)
	a.current.Store(newChunk)

	return nil
}

// Alloc allocates size bytes and returns the global offset and the slice.
// The offset remains valid until Free or Reset and can be resolved with Get.
func (a *Arena) Alloc(size int) (uint64, []byte, error) {
	if size <= 0 {
		return 0, nil, nil
	}

	mask := a.alignment - 1
	alignedSize := (size + mask) & ^mask
	if alignedSize > a.chunkSize {
		return 0, nil, fmt.Errorf("%w: %d > %d", ErrAllocTooLarge, alignedSize, a.chunkSize)
	}

	for {
		curr := a.current.Load()
		if curr == nil {
			return 0, nil, ErrClosed
		}

		offset, data, ok, err := a.tryAllocInChunk(curr, size, alignedSize)
		if err != nil {
			return 0, nil, err
		}
		if ok {
			return offset, data, nil
		}

		// Chunk is full. If another goroutine already grew the arena,
		// just retry on the new current chunk.
		if a.current.Load() != curr {
			continue
		}

		a.mu.Lock()
		if a.current.Load() != curr {
			a.mu.Unlock()
			continue
		}
		if err := a.allocateChunkLocked(); err != nil {
			a.mu.Unlock()
			return 0, nil, err
		}
		a.mu.Unlock()
	}
}

func (a *Arena) tryAllocInChunk(curr *chunk, size, alignedSize int) (uint64, []byte, bool, error) {
	oldOffset := curr.offset.Load()
	newOffset := oldOffset + int64(alignedSize)

	if newOffset > int64(len(curr.data)) {
		return 0, nil, false, nil
	}
	if !curr.offset.CompareAndSwap(oldOffset, newOffset) {
		return 0, nil, false, nil
	}

	a.stats.BytesUsed.Add(int64(size))
	a.stats.TotalAllocs.Add(1)

	oldOffsetU64, err := conv.Int64ToUint64(oldOffset)
	if err != nil {
		return 0, nil, false, err
	}
	globalOffset := (uint64(curr.index) << a.chunkBits) | oldOffsetU64
	return globalOffset, curr.data[oldOffset : oldOffset+int64(size) : newOffset], true, nil
}

// AllocBytes allocates a byte slice of the given size.
func (a *Arena) AllocBytes(size int) ([]byte, error) {
	_, b, err := a.Alloc(size)
	return b, err
}

// Get returns a pointer to the memory at the given global offset.
// The offset must come from a prior Alloc on this arena.
func (a *Arena) Get(offset uint64) unsafe.Pointer {
	chunkIdx := offset >> a.chunkBits
	chunkOffset := offset & a.chunkMask

	if chunkIdx >= uint64(a.chunkCnt.Load()) {
		panic("arena: stale offset")
	}
	c := a.chunks[chunkIdx].Load()
	if c == nil {
		panic("arena: offset into freed chunk")
	}
	return unsafe.Add(unsafe.Pointer(&c.data[0]), chunkOffset) //nolint:gosec // off-heap arena access
}

// View returns the size bytes stored at the given global offset.
func (a *Arena) View(offset uint64, size int) []byte {
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(a.Get(offset)), size) //nolint:gosec // off-heap arena access
}

// TryRewind returns the allocation at offset of the given size to its
// chunk, making the bytes available to the next Alloc. It succeeds only
// when the allocation is the most recent one in the current chunk;
// callers fall back to Release when it reports false.
func (a *Arena) TryRewind(offset uint64, size int) bool {
	if size <= 0 {
		return false
	}

	mask := a.alignment - 1
	alignedSize := int64((size + mask) & ^mask)

	curr := a.current.Load()
	if curr == nil || uint64(curr.index) != offset>>a.chunkBits {
		return false
	}
	chunkOffset := int64(offset & a.chunkMask)
	if !curr.offset.CompareAndSwap(chunkOffset+alignedSize, chunkOffset) {
		return false
	}
	a.stats.BytesUsed.Add(-int64(size))
	return true
}

// Release returns size bytes of usage accounting. The memory itself stays
// mapped until Free or Reset; callers use Release to keep BytesUsed honest
// when a component drops its arena-backed storage.
func (a *Arena) Release(size int) {
	if size <= 0 {
		return
	}
	a.stats.BytesUsed.Add(-int64(size))
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	used := a.stats.BytesUsed.Load()
	if used < 0 {
		used = 0
	}
	return Stats{
		ChunksAllocated: a.stats.ChunksAllocated.Load(),
		BytesReserved:   a.stats.BytesReserved.Load(),
		BytesUsed:       uint64(used),
		ActiveChunks:    a.stats.ActiveChunks.Load(),
		TotalAllocs:     a.stats.TotalAllocs.Load(),
	}
}

// BytesUsed returns the live allocation byte count.
func (a *Arena) BytesUsed() uint64 {
	return a.Stats().BytesUsed
}

// Free unmaps all chunks and returns the memory to the OS. All slices and
// offsets from this arena become invalid. The arena cannot be reused.
func (a *Arena) Free() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.acquirer != nil {
		reserved := a.stats.BytesReserved.Load()
		if reserved > 0 {
			a.acquirer.ReleaseMemory(int64(reserved))
		}
	}

	count := a.chunkCnt.Load()
	for i := uint32(0); i < count; i++ {
		c := a.chunks[i].Load()
		if c != nil && c.mapping != nil {
			_ = c.mapping.Close()
		}
		a.chunks[i].Store(nil)
	}
	a.chunkCnt.Store(0)
	a.current.Store(nil)

	a.stats.ActiveChunks.Store(0)
	a.stats.BytesReserved.Store(0)
	a.stats.BytesUsed.Store(0)
}

// Reset drops all allocations but keeps the first chunk for reuse.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := a.chunkCnt.Load()
	if count == 0 {
		return
	}

	if a.acquirer != nil && count > 1 {
		a.acquirer.ReleaseMemory(int64(count-1) * int64(a.chunkSize))
	}

	first := a.chunks[0].Load()
	first.offset.Store(0)

	for i := uint32(1); i < count; i++ {
		c := a.chunks[i].Load()
		if c != nil && c.mapping != nil {
			_ = c.mapping.Close()
		}
		a.chunks[i].Store(nil)
	}
	a.chunkCnt.Store(1)
	a.current.Store(first)

	a.stats.ActiveChunks.Store(1)
	chunkSizeU64, _ := conv.IntToUint64(a.chunkSize)
	a.stats.BytesReserved.Store(chunkSizeU64)
	a.stats.BytesUsed.Store(0)

	// Keep offset 0 reserved as the null handle.
	_, _, _ = a.Alloc(1)
}
