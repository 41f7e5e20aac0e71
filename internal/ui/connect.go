package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/state"
)

// propsMsg carries the props mapped from one store state.
type propsMsg struct {
	props actions.Props
	snap  state.Snapshot
}

// binding connects the store to the bubbletea program. Store listeners
// run on the dispatching goroutine, so they only signal a buffered
// channel; the props are mapped inside a tea.Cmd. Bursts of dispatches
// coalesce into one propsMsg.
type binding struct {
	store       *state.Store
	mapState    actions.MapState
	changed     chan struct{}
	unsubscribe func()
}

func bind(store *state.Store, mapState actions.MapState) *binding {
	b := &binding{
		store:    store,
		mapState: mapState,
		changed:  make(chan struct{}, 1),
	}
	b.unsubscribe = store.Subscribe(func() {
		select {
		case b.changed <- struct{}{}:
		default:
		}
	})
	return b
}

// current maps the store's current snapshot.
func (b *binding) current() propsMsg {
	snap := b.store.Snapshot()
	return propsMsg{props: b.mapState(snap.State), snap: snap}
}

// wait blocks until the store changes and returns the new props. Exactly
// one wait is outstanding at a time; Update re-arms it on every propsMsg.
func (b *binding) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-b.changed:
			return b.current()
		}
	}
}

func (b *binding) close() {
	b.unsubscribe()
}
