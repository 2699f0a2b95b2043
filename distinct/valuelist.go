package distinct

import (
	"github.com/zeebo/xxh3"

	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/vector"
)

// entry locates one encoded value inside the arena. It is a fixed-width
// key: equality starts with the cached hash and size and falls back to
// the payload bytes only on a match.
type entry struct {
	position uint64
	size     uint32
	hash     uint64
}

// valueList owns the arena-resident canonical encodings backing a
// ComplexSet. Appends are speculative: the caller inserts the returned
// entry into the map and calls removeLast when it turns out to be a
// duplicate. Removal is strictly LIFO, which is all the bump arena can
// honor.
type valueList struct {
	a       *arena.Arena
	entries []entry
	scratch []byte
	bytes   int
}

func newValueList(a *arena.Arena) *valueList {
	return &valueList{a: a}
}

// append encodes v canonically, copies the encoding into the arena and
// returns its entry.
func (l *valueList) append(v vector.Value) (entry, error) {
	l.scratch = v.AppendBinary(l.scratch[:0])
	return l.appendBytes(l.scratch, xxh3.Hash(l.scratch))
}

// appendSerialized stores an already-encoded payload with its
// precomputed hash.
func (l *valueList) appendSerialized(encoded []byte, hash uint64) (entry, error) {
	return l.appendBytes(encoded, hash)
}

func (l *valueList) appendBytes(encoded []byte, hash uint64) (entry, error) {
	pos, buf, err := l.a.Alloc(len(encoded))
	if err != nil {
		return entry{}, err
	}
	copy(buf, encoded)

	e := entry{
		position: pos,
		size:     uint32(len(encoded)), //nolint:gosec // encodings fit uint32 on the wire
		hash:     hash,
	}
	l.entries = append(l.entries, e)
	l.bytes += len(encoded)
	return e, nil
}

// removeLast drops the most recent append. e must be the entry append
// just returned.
func (l *valueList) removeLast(e entry) {
	n := len(l.entries)
	if n == 0 || l.entries[n-1] != e {
		panic("distinct: removeLast out of order")
	}
	l.entries = l.entries[:n-1]
	l.bytes -= int(e.size)
	if !l.a.TryRewind(e.position, int(e.size)) {
		l.a.Release(int(e.size))
	}
}

// view returns the stored encoding of e.
func (l *valueList) view(e entry) []byte {
	return l.a.View(e.position, int(e.size))
}

// read decodes the stored value of e. The list wrote the encoding
// itself, so a decode failure means the arena was corrupted or freed.
func (l *valueList) read(e entry) vector.Value {
	v, rest, err := vector.DecodeValue(l.view(e))
	if err != nil {
		panic("distinct: corrupt stored value: " + err.Error())
	}
	if len(rest) != 0 {
		panic("distinct: trailing bytes after stored value")
	}
	return v
}

// size returns the total stored payload bytes.
func (l *valueList) size() int {
	return l.bytes
}

func (l *valueList) len() int {
	return len(l.entries)
}

func (l *valueList) free() {
	l.a.Release(l.bytes)
	l.entries = nil
	l.bytes = 0
}
