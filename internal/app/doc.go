// Package app provides the orchestration layer for the drafty application.
//
// # Overview
//
// This package wires together configuration, logging, seeds, the draft
// engine, the action bundle, history and the store. It is the
// composition root shared by the TUI and the headless CLI commands.
//
// # Architecture
//
//	┌──────────────┐
//	│   Setup()    │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config.toml + DRAFTY_* env
//	       ├─────> newLogger()            slog to log_file (or discard)
//	       ├─────> seed.LoadDefaults()    Optional default-state overrides
//	       ├─────> draft.New()            Engine with the configured strategy
//	       ├─────> actions.Build()        Reducers for every demo domain
//	       ├─────> history.NewRecorder()  Observer of every transition
//	       └─────> state.New()            Store with the root reducer
//
//	Run() = Setup() + StartTicker() + ui.Run()
//
// # Components
//
//   - app.go: Setup, Run and the logger
//   - poller.go: background ticker dispatching clock__tick
//   - replay.go: headless replay of action scripts
//
// # Ticker Behavior
//
// The ticker dispatches clock__tick with an RFC 3339 timestamp every
// configured interval (tick = "1s" by default, "0s" disables it). When a
// dispatch fails the next tick backs off exponentially, capped at 30
// seconds, and the cadence returns to normal after the first success.
//
// # Replay
//
// Replay runs a script through the same store. Actions with a reducer are
// dispatched directly; async actions (todos__addMany,
// counter__incrementLater) are called through the bound action tree, with
// a list payload spread into their arguments. Each step reports the line
// diff of the state it produced. Dispatch errors do not stop a replay.
//
// # Error Handling
//
// Fatal errors (returned from Setup or Run):
//   - Invalid config file or environment values
//   - Unreadable seed file or seed naming an unknown domain
//   - Log file that cannot be created
//
// Recoverable errors (logged, the app continues):
//   - Failed ticks
//   - Failed dispatches from the UI, shown in its footer
package app
