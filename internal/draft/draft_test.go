package draft

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/drafty/internal/value"
)

var strategies = []Strategy{Reflective, Structural}

func eachStrategy(t *testing.T, fn func(t *testing.T, e *Engine)) {
	t.Helper()
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			fn(t, New(WithStrategy(s)))
		})
	}
}

func mustProduce(t *testing.T, e *Engine, base any, fn func(d *Draft) error) any {
	t.Helper()
	out, err := e.Produce(base, Edit(fn))
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	return out
}

func obj(t *testing.T, v any) *value.Object {
	t.Helper()
	o, ok := v.(*value.Object)
	if !ok {
		t.Fatalf("got %T, want *value.Object", v)
	}
	return o
}

func TestProduce_NoWritesReturnsBase(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("a", 1, "b", value.ObjectOf("c", value.NewArray(1, 2)))
		out := mustProduce(t, e, base, func(d *Draft) error {
			_ = d.Get("a")
			_ = d.Child("b").Child("c").At(0)
			_ = d.Keys()
			return nil
		})
		if out != any(base) {
			t.Fatalf("Produce without writes returned a new value")
		}
	})
}

func TestProduce_NestedWrite(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		inner := value.ObjectOf("c", 2)
		base := value.ObjectOf("a", 1, "b", inner)
		out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
			d.Child("b").Set("c", 3)
			return nil
		}))
		if out == base {
			t.Fatalf("result is the base")
		}
		if out.Value("b") == any(inner) {
			t.Fatalf("result.b is the base's b")
		}
		want := map[string]any{"a": 1, "b": map[string]any{"c": 3}}
		if diff := cmp.Diff(want, value.ToNative(out)); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
		if inner.Value("c") != 2 {
			t.Fatalf("base was mutated: c = %v", inner.Value("c"))
		}
	})
}

func TestProduce_PushOntoNestedArray(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		list := value.NewArray(1, 2, 3)
		base := value.ObjectOf("list", list)
		out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
			if n := d.Child("list").Push(4); n != 4 {
				t.Fatalf("Push returned %d, want 4", n)
			}
			return nil
		}))
		if out == base || out.Value("list") == any(list) {
			t.Fatalf("push did not produce new containers")
		}
		want := map[string]any{"list": []any{1, 2, 3, 4}}
		if diff := cmp.Diff(want, value.ToNative(out)); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
		if list.Len() != 3 {
			t.Fatalf("base list length = %d, want 3", list.Len())
		}
	})
}

func TestProduce_SameValueWriteIsNoop(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf(
			"a", value.ObjectOf("x", 1),
			"b", value.ObjectOf("y", 2),
			"n", math.NaN(),
		)
		out := mustProduce(t, e, base, func(d *Draft) error {
			d.Child("a").Set("x", 1)
			d.Set("n", math.NaN())
			d.Set("b", d.Get("b"))
			if d.Modified() {
				t.Fatalf("draft marked modified by same-value writes")
			}
			return nil
		})
		if out != any(base) {
			t.Fatalf("same-value writes produced a new value")
		}
	})
}

func TestProduce_SignedZeroIsAChange(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("z", 0.0)
		out := mustProduce(t, e, base, func(d *Draft) error {
			d.Set("z", math.Copysign(0, -1))
			return nil
		})
		if out == any(base) {
			t.Fatalf("writing -0 over +0 was treated as a no-op")
		}
	})
}

func TestProduce_StructuralSharing(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		sibling := value.ObjectOf("y", 2)
		base := value.ObjectOf("a", value.ObjectOf("x", 1), "b", sibling)
		out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
			_ = d.Child("b").Get("y")
			d.Child("a").Set("x", 5)
			return nil
		}))
		if out.Value("b") != any(sibling) {
			t.Fatalf("untouched sibling was copied")
		}
	})
}

func TestProduce_ResultIsFrozen(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("a", value.ObjectOf("x", 1))
		out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
			d.Child("a").Set("x", 2)
			d.Set("fresh", value.ObjectOf("k", value.NewArray(1)))
			return nil
		}))
		if err := out.Set("a", 0); !errors.Is(err, value.ErrFrozen) {
			t.Fatalf("root Set err = %v, want ErrFrozen", err)
		}
		if !value.IsFrozen(out.Value("a")) {
			t.Fatalf("modified child is not frozen")
		}
		fresh := obj(t, out.Value("fresh"))
		if !fresh.Frozen() || !value.IsFrozen(fresh.Value("k")) {
			t.Fatalf("fresh subtree is not frozen")
		}
	})
}

func TestProduce_AutoFreezeOff(t *testing.T) {
	e := New(WithAutoFreeze(false))
	base := value.ObjectOf("a", 1)
	out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
		d.Set("a", 2)
		return nil
	}))
	if out.Frozen() {
		t.Fatalf("result frozen with auto-freeze off")
	}
}

func TestProduce_ReturnedAndModified(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("x", 0)
		_, err := e.Produce(base, func(d any) (any, error) {
			d.(*Draft).Set("x", 1)
			return value.ObjectOf("y", 2), nil
		})
		if !errors.Is(err, ErrReturnedAndModified) {
			t.Fatalf("err = %v, want ErrReturnedAndModified", err)
		}
	})
}

func TestProduce_ReturnedReplacement(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		repl := value.ObjectOf("y", 2)
		out, err := e.Produce(value.ObjectOf("x", 0), func(d any) (any, error) {
			return repl, nil
		})
		if err != nil {
			t.Fatalf("Produce: %v", err)
		}
		if out != any(repl) || !repl.Frozen() {
			t.Fatalf("replacement not returned frozen: %v", out)
		}
	})
}

func TestProduce_DeleteAndArrayOps(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("a", 1, "b", 2, "list", value.NewArray(1, 2, 3), "tail", value.NewArray("x", "y"))
		out := mustProduce(t, e, base, func(d *Draft) error {
			d.Delete("a")
			if got := d.Child("list").RemoveAt(0); got != 1 {
				t.Fatalf("RemoveAt returned %v, want 1", got)
			}
			if got := d.Child("tail").Pop(); got != "y" {
				t.Fatalf("Pop returned %v, want y", got)
			}
			return nil
		})
		want := map[string]any{"b": 2, "list": []any{2, 3}, "tail": []any{"x"}}
		if diff := cmp.Diff(want, value.ToNative(out)); diff != "" {
			t.Fatalf("result mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"b", "list", "tail"}, obj(t, out).Keys()); diff != "" {
			t.Fatalf("key order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProduce_ShapeChangesAreDetected(t *testing.T) {
	cases := []struct {
		name string
		edit func(d *Draft)
		want map[string]any
	}{
		{
			name: "added key",
			edit: func(d *Draft) { d.Child("o").Set("new", true) },
			want: map[string]any{"o": map[string]any{"k": 1, "new": true}, "l": []any{1, 2}},
		},
		{
			name: "truncated array",
			edit: func(d *Draft) { d.Child("l").Set("length", 1) },
			want: map[string]any{"o": map[string]any{"k": 1}, "l": []any{1}},
		},
		{
			name: "padded array",
			edit: func(d *Draft) { d.Child("l").SetAt(3, "z") },
			want: map[string]any{"o": map[string]any{"k": 1}, "l": []any{1, 2, nil, "z"}},
		},
		{
			name: "pop then push",
			edit: func(d *Draft) {
				l := d.Child("l")
				l.Pop()
				l.Push("z")
			},
			want: map[string]any{"o": map[string]any{"k": 1}, "l": []any{1, "z"}},
		},
		{
			name: "remove last then push",
			edit: func(d *Draft) {
				l := d.Child("l")
				l.RemoveAt(1)
				l.Push("z")
			},
			want: map[string]any{"o": map[string]any{"k": 1}, "l": []any{1, "z"}},
		},
	}
	for _, tc := range cases {
		eachStrategy(t, func(t *testing.T, e *Engine) {
			t.Run(tc.name, func(t *testing.T) {
				base := value.ObjectOf("o", value.ObjectOf("k", 1), "l", value.NewArray(1, 2))
				out := mustProduce(t, e, base, func(d *Draft) error {
					tc.edit(d)
					return nil
				})
				if out == any(base) {
					t.Fatalf("shape change not detected")
				}
				if diff := cmp.Diff(tc.want, value.ToNative(out)); diff != "" {
					t.Fatalf("result mismatch (-want +got):\n%s", diff)
				}
			})
		})
	}
}

func TestProduce_SharedChildFinalizesOnce(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("a", value.ObjectOf("x", 1))
		out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
			c := d.Child("a")
			c.Set("x", 2)
			d.Set("b", c)
			return nil
		}))
		if out.Value("a") != out.Value("b") {
			t.Fatalf("shared draft finalized twice")
		}
	})
}

func TestProduce_ChildDraftIdentityIsStable(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("a", value.ObjectOf("x", 1))
		mustProduce(t, e, base, func(d *Draft) error {
			if d.Child("a") != d.Child("a") {
				t.Fatalf("repeated reads returned different drafts")
			}
			d.Set("z", 1)
			if d.Child("a") != d.Child("a") {
				t.Fatalf("reads after modification returned different drafts")
			}
			return nil
		})
	})
}

func TestProduce_UseAfterFinalizePanics(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		var leaked *Draft
		mustProduce(t, e, value.ObjectOf("a", 1), func(d *Draft) error {
			leaked = d
			return nil
		})
		defer func() {
			r := recover()
			de, ok := r.(*Error)
			if !ok || !errors.Is(de, ErrFinalized) {
				t.Fatalf("recovered %v, want *Error wrapping ErrFinalized", r)
			}
		}()
		leaked.Set("a", 2)
	})
}

func TestProduce_DraftRevokedAfterRecipeError(t *testing.T) {
	var leaked *Draft
	boom := errors.New("boom")
	_, err := Produce(value.ObjectOf("a", 1), Edit(func(d *Draft) error {
		leaked = d
		return boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("draft usable after failed producer")
		}
	}()
	_ = leaked.Get("a")
}

func TestProduce_InvalidArrayKeyBecomesError(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.ObjectOf("l", value.NewArray(1))
		out, err := e.Produce(base, Edit(func(d *Draft) error {
			d.Child("l").Set("foo", 1)
			return nil
		}))
		if !errors.Is(err, ErrInvalidKey) || out != nil {
			t.Fatalf("Produce = %v, %v; want nil, ErrInvalidKey", out, err)
		}
	})
}

func TestProduce_NestedProducersAreIsolated(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		other := value.ObjectOf("n", 1)
		var inner any
		out := obj(t, mustProduce(t, e, value.ObjectOf("n", 1), func(d *Draft) error {
			var err error
			inner, err = e.Produce(other, Edit(func(id *Draft) error {
				id.Set("n", 2)
				return nil
			}))
			if err != nil {
				return err
			}
			d.Set("n", 3)
			return nil
		}))
		if obj(t, inner).Value("n") != 2 || out.Value("n") != 3 {
			t.Fatalf("inner = %v, outer = %v", value.ToNative(inner), value.ToNative(out))
		}
		if other.Value("n") != 1 {
			t.Fatalf("inner base was mutated")
		}
	})
}

func TestProduce_Arguments(t *testing.T) {
	if _, err := Produce(value.NewObject(), nil); !errors.Is(err, ErrNilRecipe) {
		t.Fatalf("nil recipe err = %v, want ErrNilRecipe", err)
	}

	for _, base := range []any{struct{}{}, map[string]any{}, []int{1}, &Draft{}} {
		_, err := Produce(base, func(d any) (any, error) { return nil, nil })
		if !errors.Is(err, ErrInvalidBase) {
			t.Fatalf("base %T err = %v, want ErrInvalidBase", base, err)
		}
	}

	out, err := Produce(3, func(d any) (any, error) { return d.(int) + 1, nil })
	if err != nil || out != 4 {
		t.Fatalf("primitive base = %v, %v; want 4, nil", out, err)
	}
	out, err = Produce(nil, func(d any) (any, error) { return d, nil })
	if err != nil || out != nil {
		t.Fatalf("nil base = %v, %v; want nil, nil", out, err)
	}
}

func TestCurry(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		set := e.Curry(func(d any, rest ...any) (any, error) {
			d.(*Draft).Set(rest[0].(string), rest[1])
			return nil, nil
		})
		out, err := set(value.ObjectOf("a", 1), "a", 2)
		if err != nil {
			t.Fatalf("curried: %v", err)
		}
		if obj(t, out).Value("a") != 2 {
			t.Fatalf("curried result a = %v, want 2", obj(t, out).Value("a"))
		}
		if _, err := set(); !errors.Is(err, ErrArity) {
			t.Fatalf("no-arg call err = %v, want ErrArity", err)
		}
	})
}

func TestDraft_UnsupportedMutations(t *testing.T) {
	mustProduce(t, New(), value.NewObject(), func(d *Draft) error {
		if err := d.Freeze(); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("Freeze err = %v, want ErrUnsupported", err)
		}
		if err := d.SetBare(true); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("SetBare err = %v, want ErrUnsupported", err)
		}
		return nil
	})
}

func TestProduce_KeepsBareKind(t *testing.T) {
	eachStrategy(t, func(t *testing.T, e *Engine) {
		base := value.NewBare()
		_ = base.Set("a", 1)
		out := obj(t, mustProduce(t, e, base, func(d *Draft) error {
			d.Set("a", 2)
			return nil
		}))
		if !out.Bare() {
			t.Fatalf("result lost the bare kind")
		}
	})
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{"": Reflective, "Reflective": Reflective, "structural": Structural, " es5 ": Structural}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("quantum"); err == nil {
		t.Fatalf("ParseStrategy(quantum) returned nil error")
	}
}
