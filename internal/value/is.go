package value

import (
	"math"
	"reflect"
)

// Is reports whether x and y are the same value. NaN is the same as NaN,
// +0 and -0 are different, containers compare by reference.
func Is(x, y any) bool {
	switch a := x.(type) {
	case float64:
		b, ok := y.(float64)
		return ok && sameFloat(a, b)
	case float32:
		b, ok := y.(float32)
		return ok && sameFloat(float64(a), float64(b))
	}
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	tx := reflect.TypeOf(x)
	if tx != reflect.TypeOf(y) {
		return false
	}
	switch tx.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
		if vx.Pointer() != vy.Pointer() {
			return false
		}
		return tx.Kind() != reflect.Slice || vx.Len() == vy.Len()
	}
	if !tx.Comparable() {
		return false
	}
	return safeEqual(x, y)
}

func sameFloat(a, b float64) bool {
	if a == b {
		return a != 0 || math.Signbit(a) == math.Signbit(b)
	}
	return math.IsNaN(a) && math.IsNaN(b)
}

// safeEqual compares comparable values; structs holding uncomparable
// dynamic values panic under ==, which counts as "not the same".
func safeEqual(x, y any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return x == y
}

// IsPrimitive reports whether v is nil, a bool, a number or a string.
func IsPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// IsContainer reports whether v is a non-nil *Object or *Array.
func IsContainer(v any) bool {
	switch c := v.(type) {
	case *Object:
		return c != nil
	case *Array:
		return c != nil
	}
	return false
}

// ShallowCopy returns a one-level, unfrozen copy of an object or array.
// Other values are returned unchanged.
func ShallowCopy(v any) any {
	switch c := v.(type) {
	case *Object:
		return c.clone()
	case *Array:
		return c.clone()
	}
	return v
}

// Freeze freezes v when it is a container and returns it.
func Freeze(v any) any {
	switch c := v.(type) {
	case *Object:
		c.Freeze()
	case *Array:
		c.Freeze()
	}
	return v
}

// IsFrozen reports whether v is a frozen container.
func IsFrozen(v any) bool {
	switch c := v.(type) {
	case *Object:
		return c.Frozen()
	case *Array:
		return c.Frozen()
	}
	return false
}
