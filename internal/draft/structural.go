package draft

import (
	"slices"
	"sort"
	"strconv"

	"github.com/five82/drafty/internal/value"
)

// structuralTraps keeps a live one-level copy per draft. Keys present when
// the draft was created are accessor keys and go through copy-on-write;
// anything else (new keys, length writes) lands on the live view and is
// picked up by detectChanges once the recipe returns.
type structuralTraps struct{}

func (structuralTraps) init(s *state) {
	s.live = value.ShallowCopy(s.base)
	keys := keysOf(s.base)
	s.accessors = make(map[string]bool, len(keys))
	for _, k := range keys {
		s.accessors[k] = true
	}
}

func (structuralTraps) source(s *state) any {
	if s.hasCopy {
		return s.copy
	}
	return s.base
}

func (structuralTraps) prepareCopy(s *state) {
	if s.hasCopy {
		return
	}
	s.hasCopy = true
	s.copy = value.ShallowCopy(s.base)
}

func (t structuralTraps) get(s *state, key string) any {
	if !s.accessors[key] {
		v, _ := lookup(s.live, key)
		return v
	}
	v, _ := lookup(t.source(s), key)
	bv, _ := lookup(s.base, key)
	if !s.finalizing && value.Is(v, bv) && value.IsContainer(v) {
		t.prepareCopy(s)
		child := s.scope.newDraft(s, v)
		store(s.copy, key, child)
		return child
	}
	return v
}

func (t structuralTraps) set(s *state, key string, v any) {
	if !s.accessors[key] {
		t.setLive(s, key, v)
		return
	}
	if !s.modified {
		cur, _ := lookup(t.source(s), key)
		if value.Is(cur, v) {
			return
		}
		s.markModified()
	}
	t.prepareCopy(s)
	store(s.copy, key, v)
}

// setLive writes past the accessors. Shrinking an array drops the
// accessors of the removed indices along with the elements, and dropping
// a base element marks the draft modified.
func (structuralTraps) setLive(s *state, key string, v any) {
	store(s.live, key, v)
	if key != lengthKey || !s.isArray() {
		return
	}
	n := lengthOf(s.live)
	truncated := false
	for k := range s.accessors {
		if i, ok := arrayIndex(k); ok && i >= n {
			delete(s.accessors, k)
			truncated = true
		}
	}
	if truncated {
		s.markModified()
	}
}

func (t structuralTraps) remove(s *state, key string) {
	s.markModified()
	drop(s.live, key)
	if !s.isArray() {
		delete(s.accessors, key)
		return
	}
	if s.accessors[key] {
		t.prepareCopy(s)
		drop(s.copy, key)
	}
}

func (structuralTraps) has(s *state, key string) bool {
	_, ok := lookup(s.live, key)
	return ok
}

func (structuralTraps) keys(s *state) []string {
	return keysOf(s.live)
}

func (structuralTraps) length(s *state) int {
	return lengthOf(s.live)
}

// snapshot reads the live view through its accessors into a fresh
// container; it is the structural counterpart of the reflective copy.
func (t structuralTraps) snapshot(s *state) any {
	out := value.ShallowCopy(s.live)
	for _, k := range keysOf(s.live) {
		if s.accessors[k] {
			store(out, k, t.get(s, k))
		}
	}
	return out
}

// detectChanges marks drafts whose shape changed without going through an
// accessor. Deeper drafts are visited first so a changed leaf marks its
// ancestors before they are examined.
func detectChanges(states []*state) {
	order := slices.Clone(states)
	slices.Reverse(order)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].depth > order[j].depth
	})
	for _, s := range order {
		if s.modified {
			continue
		}
		if s.isArray() {
			if lengthOf(s.live) != lengthOf(s.base) {
				s.markModified()
			}
			continue
		}
		if !slices.Equal(keysOf(s.live), keysOf(s.base)) {
			s.markModified()
		}
	}
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}
