package draft

import (
	"strconv"

	"github.com/five82/drafty/internal/value"
)

const lengthKey = "length"

// state is the bookkeeping behind one draft.
type state struct {
	scope  *scope
	parent *state
	draft  *Draft
	depth  int

	base     any
	copy     any
	modified bool

	finalized bool
	result    any
	finished  bool

	// reflective: child drafts handed out while unmodified
	children map[string]*Draft

	// structural: the live view and the keys that still route through
	// the copy-on-write path
	live       any
	accessors  map[string]bool
	hasCopy    bool
	finalizing bool
}

func (s *state) isArray() bool {
	_, ok := s.base.(*value.Array)
	return ok
}

// markModified flags s and its ancestors.
func (s *state) markModified() {
	for cur := s; cur != nil && !cur.modified; cur = cur.parent {
		cur.modified = true
	}
}

func arrayIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

// lookup reads key from an object or array. Arrays answer to indices and
// "length".
func lookup(c any, key string) (any, bool) {
	switch t := c.(type) {
	case *value.Object:
		return t.Get(key)
	case *value.Array:
		if key == lengthKey {
			return t.Len(), true
		}
		i, ok := arrayIndex(key)
		if !ok || i >= t.Len() {
			return nil, false
		}
		return t.At(i), true
	}
	return nil, false
}

// store writes key into a container the engine owns (never frozen).
func store(c any, key string, v any) {
	switch t := c.(type) {
	case *value.Object:
		_ = t.Set(key, v)
	case *value.Array:
		if key == lengthKey {
			n, ok := value.Int(v)
			if !ok || n < 0 {
				panic(&Error{Op: "set", Key: key, Err: ErrInvalidKey})
			}
			_ = t.SetLen(int(n))
			return
		}
		i, ok := arrayIndex(key)
		if !ok {
			panic(&Error{Op: "set", Key: key, Err: ErrInvalidKey})
		}
		_ = t.Set(i, v)
	}
}

// drop removes key. Array elements become nil holes.
func drop(c any, key string) {
	switch t := c.(type) {
	case *value.Object:
		_ = t.Delete(key)
	case *value.Array:
		i, ok := arrayIndex(key)
		if !ok {
			panic(&Error{Op: "delete", Key: key, Err: ErrInvalidKey})
		}
		if i < t.Len() {
			_ = t.Set(i, nil)
		}
	}
}

func keysOf(c any) []string {
	switch t := c.(type) {
	case *value.Object:
		return t.Keys()
	case *value.Array:
		keys := make([]string, t.Len())
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	}
	return nil
}

func lengthOf(c any) int {
	switch t := c.(type) {
	case *value.Object:
		return t.Len()
	case *value.Array:
		return t.Len()
	}
	return 0
}

func checkKey(s *state, op, key string) {
	if !s.isArray() || key == lengthKey {
		return
	}
	if _, ok := arrayIndex(key); !ok {
		panic(&Error{Op: op, Key: key, Err: ErrInvalidKey})
	}
}
