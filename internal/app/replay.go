package app

import (
	"fmt"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/history"
	"github.com/five82/drafty/internal/value"
)

// Step is the outcome of one replayed action.
type Step struct {
	Index  int
	Action actions.Action
	// Lines is the state diff the action produced.
	Lines []history.Line
	// Err is the dispatch error; the store kept its previous state.
	Err error
}

// Replay runs script against the runtime's store in order, calling visit
// after each action. Dispatch errors are reported through Step.Err and do
// not stop the replay; an error from visit does.
func (r *Runtime) Replay(script []actions.Action, visit func(Step) error) error {
	for i, a := range script {
		prev := r.Store.State()
		err := r.run(a)
		lines, diffErr := history.Diff(prev, r.Store.State())
		if diffErr != nil {
			return fmt.Errorf("diff after %s: %w", a.Type, diffErr)
		}
		if visit == nil {
			continue
		}
		if err := visit(Step{Index: i, Action: a, Lines: lines, Err: err}); err != nil {
			return err
		}
	}
	return nil
}

// run dispatches reducer actions directly and calls async actions through
// the bound tree. A list payload is spread into the async action's
// arguments.
func (r *Runtime) run(a actions.Action) error {
	if _, ok := r.Bundle.ActionMaps[a.Domain()][a.Type]; ok {
		return r.Store.Dispatch(a)
	}
	fn, ok := r.Tree[a.Domain()][a.Name()]
	if !ok {
		return r.Store.Dispatch(a)
	}
	r.Logger.Debug("app: replay async", "type", a.Type)
	if list, ok := a.Payload.(*value.Array); ok {
		return fn(list.Items()...)
	}
	if a.Payload == nil {
		return fn()
	}
	return fn(a.Payload)
}
