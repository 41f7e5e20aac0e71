package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// FromNative converts decoded TOML/YAML/JSON data into a value tree.
func FromNative(v any) (any, error) {
	switch n := v.(type) {
	case nil, bool, string, int64, float64, time.Time:
		return n, nil
	case *Object, *Array:
		return n, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", n.String(), err)
		}
		return f, nil
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			child, err := FromNative(n[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			o.put(k, child)
		}
		return o, nil
	case map[any]any:
		m := make(map[string]any, len(n))
		for k, val := range n {
			m[fmt.Sprint(k)] = val
		}
		return FromNative(m)
	case []any:
		a := &Array{items: make([]any, 0, len(n))}
		for i, item := range n {
			child, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			a.items = append(a.items, child)
		}
		return a, nil
	case []map[string]any:
		items := make([]any, len(n))
		for i := range n {
			items[i] = n[i]
		}
		return FromNative(items)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(u), nil
	case reflect.Float32:
		return rv.Float(), nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}

// ToNative converts a value tree into map[string]any and []any.
func ToNative(v any) any {
	switch c := v.(type) {
	case *Object:
		m := make(map[string]any, len(c.keys))
		for _, k := range c.keys {
			m[k] = ToNative(c.vals[k])
		}
		return m
	case *Array:
		out := make([]any, len(c.items))
		for i, item := range c.items {
			out[i] = ToNative(item)
		}
		return out
	}
	return v
}

// Int returns v as an int64 when it is an integral number.
func Int(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(rv.Uint()), true
	}
	return 0, false
}

// Equal reports whether a and b are deeply equal trees. Containers are
// compared by content, scalars with Is.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() || x.bare != y.bare {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k || !Equal(x.vals[k], y.vals[k]) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	}
	return Is(a, b)
}
