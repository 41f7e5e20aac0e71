// Package ui provides the terminal user interface for drafty.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program connected to a state.Store. It never
// reads the store directly while rendering; instead a binding maps every
// store state to actions.Props and hands them to the model as messages:
//
//	store.Dispatch ──notify──→ binding.changed (buffered, size 1)
//	                                   │
//	                        binding.wait (tea.Cmd)
//	                                   │
//	                                   ↓
//	                 propsMsg{Props, Snapshot} ──→ Model.Update
//
// The mapping is built from actions.Keys over the domain keys, merged with
// the selector mapping, and closed over the action tree with
// actions.WithActions. Key presses dispatch through the bound actions in
// Props.Actions, so the UI only ever talks to the store through the same
// action tree a reducer test would use.
//
// # Package Structure
//
//   - app.go: Model, key handling, commands and Run
//   - connect.go: store subscription and props mapping
//   - views.go: header, command bar, state and history views
//   - help.go: help overlay rendered from the key map
//   - keys.go: key bindings
//   - theme.go: Nightfox, Kanagawa and Slate palettes
//
// # Views
//
//   - State: counter, todo list with a cursor, clock, selector results and
//     the raw state tree as indented JSON
//   - History: recorded transitions with their merge patches, plus a line
//     diff of the selected entry
//
// # Key Features
//
//   - Undo: "u" drops the newest history entry and resets the store to the
//     state before it
//   - Themes: "T" cycles themes; theme, view and diff visibility persist
//     through the prefs package
//   - Async actions: dispatches run inside tea.Cmds, so a slow async
//     action such as incrementLater never blocks rendering
package ui
