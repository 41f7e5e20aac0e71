package actions

import "github.com/five82/drafty/internal/value"

// Props is what a connected view receives for one store state.
type Props struct {
	// State holds the selected domain slices by key.
	State map[string]any
	// Actions holds the action subtrees matching State.
	Actions Tree
	// Selected holds named selector results.
	Selected map[string]any
	// Err records a mapping failure; the other fields are best effort.
	Err error
}

// MapState maps a store state to props.
type MapState func(state any) Props

// MapStateWithActions maps a store state to props given the action tree.
type MapStateWithActions func(state any, tree Tree) Props

// WithActions closes mapState over tree so it can be used where a plain
// MapState is expected.
func WithActions(tree Tree, mapState MapStateWithActions) MapState {
	return func(state any) Props {
		return mapState(state, tree)
	}
}

// Keys picks the given domain keys from the root state together with their
// action subtrees.
func Keys(keys ...string) MapStateWithActions {
	return func(state any, tree Tree) Props {
		p := Props{
			State:   make(map[string]any, len(keys)),
			Actions: make(Tree, len(keys)),
		}
		root, _ := state.(*value.Object)
		for _, k := range keys {
			if root != nil {
				if v, ok := root.Get(k); ok {
					p.State[k] = v
				}
			}
			if sub, ok := tree[k]; ok {
				p.Actions[k] = sub
			}
		}
		return p
	}
}

// Merge runs every mapping and combines their props. Later mappings win on
// key clashes; the first error is kept.
func Merge(fns ...MapStateWithActions) MapStateWithActions {
	return func(state any, tree Tree) Props {
		out := Props{
			State:    map[string]any{},
			Actions:  Tree{},
			Selected: map[string]any{},
		}
		for _, fn := range fns {
			p := fn(state, tree)
			for k, v := range p.State {
				out.State[k] = v
			}
			for k, v := range p.Actions {
				out.Actions[k] = v
			}
			for k, v := range p.Selected {
				out.Selected[k] = v
			}
			if out.Err == nil {
				out.Err = p.Err
			}
		}
		return out
	}
}
