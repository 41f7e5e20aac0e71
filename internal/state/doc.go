// Package state provides the thread-safe dispatching store for drafty.
//
// # Overview
//
// The Store owns the current root state and runs every dispatched action
// through a reducer (usually actions.Bundle.Reduce). It is the concrete
// store the action tree is bound to, and the coordination point where UI
// key presses, scripted replays and the clock ticker meet.
//
// # Architecture
//
//	Dispatchers:                    Subscribers:
//	┌────────────────┐             ┌────────────────┐
//	│ UI key press   │             │                │
//	│ clock ticker   │──Dispatch──→│ notify()       │
//	│ async action   │  (serial)   │      ↓         │
//	│ replay script  │             │ store.State()  │
//	└────────────────┘             └────────────────┘
//
// # Concurrency Model
//
// Two locks are involved:
//
//   - dispatchMu is held while the reducer runs, so at most one reducer
//     runs per action and actions are applied in the order they acquire
//     the lock.
//   - mu guards the snapshot and the subscriber set. State() and
//     Snapshot() only take the read lock and never wait on a reducer.
//
// Observers run while dispatchMu is still held, so history sees
// transitions in order. Subscribers run after both locks are released and
// may call State() or Dispatch() again.
//
// # Dispatch Semantics
//
//	// Success: replace the state
//	store.Dispatch(a)
//	→ snapshot.State = reduce(prev, a)
//	→ snapshot.Version++ (only when the state identity changed)
//	→ snapshot.LastError = nil
//
//	// Reducer error: keep the old state, record the error
//	store.Dispatch(a)
//	→ snapshot.State = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Reset replaces the state without running the reducer; the UI uses it to
// step back through history.
//
// # Testing Considerations
//
// New runs the reducer once with a nil state and the @@init action, so a
// store built from a Bundle starts with every domain's default state.
package state
