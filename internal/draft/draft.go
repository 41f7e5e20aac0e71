package draft

// Draft is a mutable view over an object or array base. All writes are
// staged; the base is never touched. A Draft is only valid inside the
// recipe that received it.
type Draft struct {
	s *state
}

func (d *Draft) live(op string) *state {
	if d.s.finished {
		panic(&Error{Op: op, Err: ErrFinalized})
	}
	return d.s
}

func (d *Draft) traps() traps { return d.s.scope.traps }

// Get returns the value at key. Objects and arrays come back as child
// drafts; the same child is returned on every read.
func (d *Draft) Get(key string) any {
	s := d.live("get")
	return d.traps().get(s, key)
}

// Set writes v at key. Writing a value equal to the current one leaves
// the draft unmodified.
func (d *Draft) Set(key string, v any) {
	s := d.live("set")
	checkKey(s, "set", key)
	d.traps().set(s, key, v)
}

// Delete removes key. On arrays the element becomes a nil hole.
func (d *Draft) Delete(key string) {
	s := d.live("delete")
	checkKey(s, "delete", key)
	d.traps().remove(s, key)
}

// Has reports whether key is present.
func (d *Draft) Has(key string) bool {
	s := d.live("has")
	return d.traps().has(s, key)
}

// Keys lists the keys in order. Arrays list their indices.
func (d *Draft) Keys() []string {
	s := d.live("keys")
	return d.traps().keys(s)
}

// Len is the number of keys of an object or the length of an array.
func (d *Draft) Len() int {
	s := d.live("len")
	return d.traps().length(s)
}

// IsArray reports whether the draft wraps an array.
func (d *Draft) IsArray() bool {
	return d.live("isArray").isArray()
}

// At returns element i.
func (d *Draft) At(i int) any {
	return d.Get(indexKey(i))
}

// SetAt writes element i, padding with nil when i is past the end.
func (d *Draft) SetAt(i int, v any) {
	d.Set(indexKey(i), v)
}

// Push appends vs and returns the new length.
func (d *Draft) Push(vs ...any) int {
	n := d.Len()
	for i, v := range vs {
		d.SetAt(n+i, v)
	}
	return n + len(vs)
}

// Pop removes and returns the last element, or nil when empty.
func (d *Draft) Pop() any {
	n := d.Len()
	if n == 0 {
		return nil
	}
	v := d.At(n - 1)
	d.Set(lengthKey, n-1)
	return v
}

// RemoveAt removes element i, shifting the rest down, and returns it.
func (d *Draft) RemoveAt(i int) any {
	n := d.Len()
	if i < 0 || i >= n {
		return nil
	}
	v := d.At(i)
	for j := i; j < n-1; j++ {
		d.SetAt(j, d.At(j+1))
	}
	d.Set(lengthKey, n-1)
	return v
}

// Child returns the draft at key, or nil when the value there is not an
// object or array.
func (d *Draft) Child(key string) *Draft {
	c, _ := d.Get(key).(*Draft)
	return c
}

// ChildAt is Child for array elements.
func (d *Draft) ChildAt(i int) *Draft {
	return d.Child(indexKey(i))
}

// Original returns the base the draft was created from.
func (d *Draft) Original() any {
	return d.live("original").base
}

// Modified reports whether the draft or a descendant changed. Shape
// changes made by the structural strategy outside of accessors are only
// seen after the recipe returns.
func (d *Draft) Modified() bool {
	return d.live("modified").modified
}

// Freeze always fails: drafts cannot change how their properties are
// defined.
func (d *Draft) Freeze() error {
	d.live("freeze")
	return &Error{Op: "freeze", Err: ErrUnsupported}
}

// SetBare always fails: a draft's object kind is fixed by its base.
func (d *Draft) SetBare(bool) error {
	d.live("setBare")
	return &Error{Op: "setBare", Err: ErrUnsupported}
}
