// Package actions wires action maps and reducers for a dispatching store.
//
// # Action types
//
// Every action type is "<domain>__<name>". PrefixedActionMap builds the
// prefixed map for one domain, CreateActions binds it to a dispatch
// function under the unprefixed names.
//
// # Reducers
//
// NewReducer runs the handler matching an action's type through a
// draft.Engine, so handlers mutate a draft and the reducer returns a new
// frozen state. A nil previous state yields the domain's default state
// verbatim and unknown types return the previous state by reference.
//
// Build takes the domain definitions of an application and returns a
// Bundle with one reducer per domain, a root reducer over an object keyed
// by domain, and an Actions function that binds the full action tree
// (including async actions) to a store:
//
//	bundle := actions.Build(defs)
//	store, err := state.New(bundle.Reduce)
//	tree := bundle.Actions(store)
//	_ = tree["counter"]["increment"](int64(1))
//
// # Connecting views
//
// The action tree is passed explicitly: WithActions closes a mapping over
// it and Keys picks domain slices with their matching action subtrees.
package actions
