// Package history records store transitions for inspection and undo.
//
// A Recorder is registered as a state.Observer. For each dispatch it keeps
// the action, both states and the JSON merge patch between them; Verify
// checks that a patch really reproduces its next state. Diff renders a
// line diff of two states for the UI and the replay command.
package history
