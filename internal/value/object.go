package value

import "errors"

// ErrFrozen is returned when mutating a frozen container.
var ErrFrozen = errors.New("value: container is frozen")

// ErrIndex is returned for negative array indices and lengths.
var ErrIndex = errors.New("value: index out of range")

// Object is an ordered string-keyed mapping.
type Object struct {
	keys   []string
	vals   map[string]any
	bare   bool
	frozen bool
}

// NewObject returns an empty plain object.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// NewBare returns an empty bare object.
func NewBare() *Object {
	return &Object{vals: make(map[string]any), bare: true}
}

// ObjectOf builds a plain object from alternating keys and values.
// It panics if a key is not a string or the pair count is odd; it is meant
// for literals in code and tests.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("value: ObjectOf needs key/value pairs")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("value: ObjectOf key must be a string")
		}
		o.put(k, kv[i+1])
	}
	return o
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	v, ok := o.vals[k]
	return v, ok
}

// Value returns the value stored under k, or nil.
func (o *Object) Value(k string) any {
	return o.vals[k]
}

// Has reports whether k is present.
func (o *Object) Has(k string) bool {
	_, ok := o.vals[k]
	return ok
}

// Set stores v under k. New keys are appended to the key order.
func (o *Object) Set(k string, v any) error {
	if o.frozen {
		return ErrFrozen
	}
	o.put(k, v)
	return nil
}

// Delete removes k. Deleting a missing key is not an error.
func (o *Object) Delete(k string) error {
	if o.frozen {
		return ErrFrozen
	}
	o.remove(k)
	return nil
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Range calls fn for each entry in key order until fn returns false.
func (o *Object) Range(fn func(k string, v any) bool) {
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Bare reports whether the object is of the bare kind.
func (o *Object) Bare() bool {
	return o.bare
}

// Freeze makes the object reject further mutation. It is shallow.
func (o *Object) Freeze() {
	o.frozen = true
}

// Frozen reports whether the object is frozen.
func (o *Object) Frozen() bool {
	return o.frozen
}

func (o *Object) put(k string, v any) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o *Object) remove(k string) {
	if _, ok := o.vals[k]; !ok {
		return
	}
	delete(o.vals, k)
	for i, key := range o.keys {
		if key == k {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *Object) clone() *Object {
	dup := &Object{
		keys: make([]string, len(o.keys)),
		vals: make(map[string]any, len(o.vals)),
		bare: o.bare,
	}
	copy(dup.keys, o.keys)
	for k, v := range o.vals {
		dup.vals[k] = v
	}
	return dup
}
