package distinct

import (
	"fmt"

	"github.com/TJX2014/velox/internal/bytestream"
	"github.com/TJX2014/velox/internal/hashmap"
	"github.com/TJX2014/velox/vector"
)

// Serialized layout widths. Every variant writes the same header: the
// null slot as a signed 32-bit index (NoNullSlot if absent) followed by
// the unique non-null value count as an unsigned 64-bit integer.
const (
	slotIndexSize = 4
	countSize     = 8
	hashSize      = 8
	headerSize    = slotIndexSize + countSize
)

// NoNullSlot is the serialized sentinel for "no null observed".
const NoNullSlot int32 = -1

// Accumulator is the capability surface shared by the closed set of
// variants. Typed add and extract operations live on the concrete types.
type Accumulator interface {
	Size() int
	Serialize(out *vector.BytesVector, row int)
	Deserialize(data []byte) error
	Free()
}

// base carries the state every variant shares: the unique-value map and
// the optional null slot.
type base[K any] struct {
	nullSlot int32
	unique   *hashmap.Map[K]
}

func newBase[K any](hash func(K) uint64, eq func(K, K) bool) base[K] {
	return base[K]{
		nullSlot: NoNullSlot,
		unique:   hashmap.New(hash, eq),
	}
}

func (b *base[K]) hasNull() bool {
	return b.nullSlot != NoNullSlot
}

// addNull reserves the null slot at the current occupied-slot count.
// Only the first null counts; later nulls are no-ops.
func (b *base[K]) addNull() {
	if !b.hasNull() {
		b.nullSlot = int32(b.unique.Len())
	}
}

// nextSlot returns the slot a new unique value would occupy. The null
// slot, once reserved, shifts every later value by one.
func (b *base[K]) nextSlot() int32 {
	cnt := int32(b.unique.Len())
	if b.hasNull() {
		return cnt + 1
	}
	return cnt
}

func (b *base[K]) size() int {
	n := b.unique.Len()
	if b.hasNull() {
		n++
	}
	return n
}

// readNullSlot consumes the serialized null-slot field. Deserialization
// must target a fresh accumulator; hitting an instance that already
// tracked a null is a caller contract violation.
func (b *base[K]) readNullSlot(r *bytestream.Reader) {
	if b.hasNull() {
		panic("distinct: deserialize into an accumulator that already has a null slot")
	}
	if v := r.Int32(); v != NoNullSlot {
		b.nullSlot = v
	}
}

func (b *base[K]) checkCount(declared uint64) {
	if declared != uint64(b.unique.Len()) {
		panic(fmt.Sprintf("distinct: deserialized %d unique values, header declared %d", b.unique.Len(), declared))
	}
}
