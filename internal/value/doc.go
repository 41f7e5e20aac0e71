// Package value defines the trees that drafty states are made of.
//
// A state is built from primitives (nil, bool, numbers, strings) and two
// container types:
//
//   - *Object: an ordered, string-keyed mapping. Key order is insertion
//     order and is observable through Keys. An object is either plain or
//     bare; the kind is fixed when the object is created and survives
//     ShallowCopy.
//   - *Array: an ordered sequence. Writing past the end pads with nil
//     holes, writing the length truncates or pads.
//
// Containers are compared by identity (pointer), which is what makes
// structural sharing observable: an unchanged subtree in a produced state
// is the very same *Object as in the base.
//
// Frozen containers reject every mutation with ErrFrozen. The draft engine
// freezes the containers it produces, so a published state cannot be
// changed behind the store's back.
//
// # Equality
//
// Is implements SameValue semantics: NaN is equal to NaN, +0 and -0 are
// different, containers compare by reference and no comparison panics.
//
// # Native conversion
//
// FromNative turns the map[string]any / []any trees produced by TOML, YAML
// and JSON decoders into values. Map keys are sorted so conversion is
// deterministic; integers become int64 and floats float64. ToNative goes
// the other way and is what selectors evaluate against.
package value
