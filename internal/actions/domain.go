package actions

import (
	"fmt"
	"sort"

	"github.com/five82/drafty/internal/draft"
	"github.com/five82/drafty/internal/value"
)

// Store is the dispatching store the bundle's actions are bound to.
type Store interface {
	Dispatch(Action) error
	State() any
	Subscribe(func()) (unsubscribe func())
}

// AsyncContext is handed to async actions.
type AsyncContext struct {
	// Actions are the bound actions of the async action's own domain.
	Actions BoundActions
	// GetState returns the domain's slice of the store state.
	GetState func() any
	Store    Store
}

// AsyncAction runs a multi-step flow that dispatches through ctx.
type AsyncAction func(ctx AsyncContext, args ...any) error

// Domain defines one top-level state key and its actions.
type Domain struct {
	Actions      map[string]Handler
	DefaultState any
	AsyncActions map[string]AsyncAction
}

// Definitions maps domain keys to domains.
type Definitions map[string]Domain

// Keys returns the domain keys, sorted.
func (d Definitions) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tree holds the bound actions of every domain.
type Tree map[string]BoundActions

// Bundle is the result of Build.
type Bundle struct {
	// Reducers holds one reducer per domain key.
	Reducers map[string]Reducer
	// ActionMaps holds the prefixed handlers per domain key.
	ActionMaps map[string]ActionMap

	defs Definitions
	keys []string
	opts options
}

// Build creates the reducers of every domain in defs.
func Build(defs Definitions, opts ...Option) *Bundle {
	b := &Bundle{
		Reducers:   make(map[string]Reducer, len(defs)),
		ActionMaps: make(map[string]ActionMap, len(defs)),
		defs:       defs,
		keys:       defs.Keys(),
		opts:       buildOptions(opts),
	}
	for key, dom := range defs {
		m := PrefixedActionMap(key, dom.Actions)
		b.ActionMaps[key] = m
		b.Reducers[key] = NewReducer(m, dom.DefaultState, opts...)
	}
	return b
}

// DomainKeys returns the domain keys in the order the root state lists
// them.
func (b *Bundle) DomainKeys() []string {
	return append([]string(nil), b.keys...)
}

// Reduce is the root reducer. The root state is an object keyed by domain;
// an action that changes no domain returns the previous root unchanged.
func (b *Bundle) Reduce(prev any, a Action) (any, error) {
	if prev == nil {
		root := value.NewObject()
		for _, key := range b.keys {
			next, err := b.Reducers[key](nil, a)
			if err != nil {
				return nil, fmt.Errorf("init %s: %w", key, err)
			}
			_ = root.Set(key, next)
		}
		return value.Freeze(root), nil
	}
	prevRoot, ok := prev.(*value.Object)
	if !ok {
		return prev, fmt.Errorf("root state is %T, want *value.Object", prev)
	}
	return b.opts.engine.Produce(prevRoot, draft.Edit(func(d *draft.Draft) error {
		for _, key := range b.keys {
			cur, _ := prevRoot.Get(key)
			next, err := b.Reducers[key](cur, a)
			if err != nil {
				return err
			}
			d.Set(key, next)
		}
		return nil
	}))
}

// Actions binds every domain's actions and async actions to store.
func (b *Bundle) Actions(store Store) Tree {
	tree := make(Tree, len(b.defs))
	for key, dom := range b.defs {
		bound := CreateActions(b.ActionMaps[key], store.Dispatch)
		ctx := AsyncContext{
			Actions:  bound,
			GetState: domainState(store, key),
			Store:    store,
		}
		for name, fn := range dom.AsyncActions {
			bound[name] = func(args ...any) error {
				b.opts.logger.Debug("actions: async", "domain", key, "name", name)
				return fn(ctx, args...)
			}
		}
		tree[key] = bound
	}
	return tree
}

func domainState(store Store, key string) func() any {
	return func() any {
		root, ok := store.State().(*value.Object)
		if !ok {
			return nil
		}
		return root.Value(key)
	}
}
