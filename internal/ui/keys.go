package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Undo       key.Binding

	// View switching
	ViewState   key.Binding
	ViewHistory key.Binding
	ToggleDiff  key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Counter
	Increment      key.Binding
	Decrement      key.Binding
	ResetCounter   key.Binding
	IncrementLater key.Binding

	// Todos
	AddTodo        key.Binding
	ToggleTodo     key.Binding
	RemoveTodo     key.Binding
	ClearCompleted key.Binding
	CycleFilter    key.Binding

	// Input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch view"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Undo last action"),
		),

		ViewState: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "State view"),
		),
		ViewHistory: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "History view"),
		),
		ToggleDiff: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Toggle diff"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Decrement"),
		),
		ResetCounter: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "Reset counter"),
		),
		IncrementLater: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Increment in 1s"),
		),

		AddTodo: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add todo"),
		),
		ToggleTodo: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/Space", "Toggle todo"),
		),
		RemoveTodo: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Remove todo"),
		),
		ClearCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear completed"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle filter"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Undo, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewState, k.ViewHistory, k.ToggleDiff},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.Increment, k.Decrement, k.ResetCounter, k.IncrementLater},
		{k.AddTodo, k.ToggleTodo, k.RemoveTodo, k.ClearCompleted, k.CycleFilter},
		{k.Undo, k.CycleTheme, k.Help, k.Quit},
	}
}
