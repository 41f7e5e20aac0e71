package draft

import "github.com/five82/drafty/internal/value"

// finalize turns a draft into its immutable result. Unmodified drafts
// yield their base; a draft reached twice yields the same result.
func (sc *scope) finalize(d *Draft) any {
	s := d.s
	if s.scope != sc {
		// A draft of an enclosing producer; it is finalized by its owner.
		return d
	}
	if !s.modified {
		return s.base
	}
	if s.finalized {
		return s.result
	}

	var out any
	if st, ok := sc.traps.(structuralTraps); ok {
		out = st.snapshot(s)
	} else {
		out = s.copy
	}
	s.finalized = true
	s.result = out

	sc.finalizeChildren(out, s.base)
	if sc.engine.autoFreeze {
		value.Freeze(out)
	}
	return out
}

// finalizeChildren replaces every entry of c that differs from the same
// entry of base with its finalized form.
func (sc *scope) finalizeChildren(c, base any) {
	for _, k := range keysOf(c) {
		v, _ := lookup(c, k)
		if base != nil {
			if bv, ok := lookup(base, k); ok && value.Is(v, bv) {
				continue
			}
		}
		if fv := sc.finalizeValue(v); !value.Is(fv, v) {
			store(c, k, fv)
		}
	}
}

// finalizeValue finalizes drafts and walks fresh containers. Frozen
// containers are left alone.
func (sc *scope) finalizeValue(v any) any {
	switch t := v.(type) {
	case *Draft:
		return sc.finalize(t)
	case *value.Object, *value.Array:
		if value.IsFrozen(t) {
			return v
		}
		sc.finalizeChildren(t, nil)
		if sc.engine.autoFreeze {
			value.Freeze(t)
		}
		return v
	}
	return v
}
