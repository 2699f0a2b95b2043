package distinct

import (
	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/vector"
)

// stringStore copies variable-length string payloads into the arena so
// the views held as map keys stay valid for the accumulator's lifetime.
// Inline views never reach it.
type stringStore struct {
	a     *arena.Arena
	bytes int
}

func newStringStore(a *arena.Arena) *stringStore {
	return &stringStore{a: a}
}

// append copies v's payload into the arena and returns a view over the
// copy. v must not be inline.
func (s *stringStore) append(v vector.StringView) (vector.StringView, error) {
	buf, err := s.a.AllocBytes(v.Len())
	if err != nil {
		return vector.StringView{}, err
	}
	copy(buf, v.Bytes())
	s.bytes += v.Len()
	return vector.MakeStringView(buf), nil
}

// size returns the total payload bytes copied so far.
func (s *stringStore) size() int {
	return s.bytes
}

func (s *stringStore) free() {
	s.a.Release(s.bytes)
	s.bytes = 0
}
