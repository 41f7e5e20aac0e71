package draft

import "github.com/five82/drafty/internal/value"

// traps is the interception layer behind a Draft. Each strategy decides
// how reads and writes reach the base, the copy and the child drafts.
type traps interface {
	init(s *state)
	get(s *state, key string) any
	set(s *state, key string, v any)
	remove(s *state, key string)
	has(s *state, key string) bool
	keys(s *state) []string
	length(s *state) int
}

// reflectiveTraps never touches the base: every access is intercepted and
// the copy is only materialized on the first real write.
type reflectiveTraps struct{}

func (reflectiveTraps) init(s *state) {
	s.children = make(map[string]*Draft)
}

func (reflectiveTraps) source(s *state) any {
	if s.modified {
		return s.copy
	}
	return s.base
}

func (t reflectiveTraps) get(s *state, key string) any {
	if s.modified {
		v, _ := lookup(s.copy, key)
		bv, _ := lookup(s.base, key)
		if value.Is(v, bv) && value.IsContainer(v) {
			child := s.scope.newDraft(s, v)
			store(s.copy, key, child)
			return child
		}
		return v
	}
	if child, ok := s.children[key]; ok {
		return child
	}
	v, _ := lookup(s.base, key)
	if value.IsContainer(v) {
		child := s.scope.newDraft(s, v)
		s.children[key] = child
		return child
	}
	return v
}

func (t reflectiveTraps) set(s *state, key string, v any) {
	if !s.modified {
		if bv, ok := lookup(s.base, key); ok && value.Is(bv, v) {
			return
		}
		if child, ok := s.children[key]; ok {
			if d, isDraft := v.(*Draft); isDraft && d == child {
				return
			}
		}
		t.markChanged(s)
	}
	store(s.copy, key, v)
}

func (t reflectiveTraps) remove(s *state, key string) {
	t.markChanged(s)
	drop(s.copy, key)
}

func (t reflectiveTraps) has(s *state, key string) bool {
	_, ok := lookup(t.source(s), key)
	return ok
}

func (t reflectiveTraps) keys(s *state) []string {
	return keysOf(t.source(s))
}

func (t reflectiveTraps) length(s *state) int {
	return lengthOf(t.source(s))
}

// markChanged flags s and its ancestors, giving each newly modified node
// its copy with the already handed-out child drafts merged in.
func (reflectiveTraps) markChanged(s *state) {
	for cur := s; cur != nil && !cur.modified; cur = cur.parent {
		cur.modified = true
		cur.copy = value.ShallowCopy(cur.base)
		for k, child := range cur.children {
			store(cur.copy, k, child)
		}
	}
}
