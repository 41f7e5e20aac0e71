package value

// Array is an ordered sequence of values.
type Array struct {
	items  []any
	frozen bool
}

// NewArray returns an array holding a copy of items.
func NewArray(items ...any) *Array {
	dup := make([]any, len(items))
	copy(dup, items)
	return &Array{items: dup}
}

// At returns the element at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// Set stores v at i, padding with nil holes when i is past the end.
func (a *Array) Set(i int, v any) error {
	if a.frozen {
		return ErrFrozen
	}
	if i < 0 {
		return ErrIndex
	}
	a.grow(i + 1)
	a.items[i] = v
	return nil
}

// Append adds values to the end.
func (a *Array) Append(v ...any) error {
	if a.frozen {
		return ErrFrozen
	}
	a.items = append(a.items, v...)
	return nil
}

// SetLen truncates or pads the array to n elements.
func (a *Array) SetLen(n int) error {
	if a.frozen {
		return ErrFrozen
	}
	if n < 0 {
		return ErrIndex
	}
	if n <= len(a.items) {
		clear(a.items[n:])
		a.items = a.items[:n]
		return nil
	}
	a.grow(n)
	return nil
}

// Items returns a copy of the elements.
func (a *Array) Items() []any {
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// Freeze makes the array reject further mutation. It is shallow.
func (a *Array) Freeze() {
	a.frozen = true
}

// Frozen reports whether the array is frozen.
func (a *Array) Frozen() bool {
	return a.frozen
}

func (a *Array) grow(n int) {
	for len(a.items) < n {
		a.items = append(a.items, nil)
	}
}

func (a *Array) clone() *Array {
	return NewArray(a.items...)
}
