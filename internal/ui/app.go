package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/demo"
	"github.com/five82/drafty/internal/history"
	"github.com/five82/drafty/internal/prefs"
	"github.com/five82/drafty/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewState View = iota
	ViewHistory
)

func (v View) String() string {
	if v == ViewHistory {
		return "history"
	}
	return "state"
}

func parseView(s string) View {
	if strings.TrimSpace(s) == "history" {
		return ViewHistory
	}
	return ViewState
}

// Options configures the UI.
type Options struct {
	Context  context.Context
	Store    *state.Store
	Tree     actions.Tree
	Recorder *history.Recorder
	// DomainKeys are the domains mapped into props.
	DomainKeys []string
	// Selectors, when set, fills Props.Selected.
	Selectors actions.MapStateWithActions
	Strategy  string
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	recorder  *history.Recorder
	binding   *binding
	strategy  string
	prefsPath string
	logger    *slog.Logger
	keys      keyMap

	theme       Theme
	currentView View
	showDiff    bool
	showHelp    bool
	width       int
	height      int
	ready       bool

	props propsMsg
	// lastErr is the error of the most recent dispatch started from the UI.
	lastErr error

	// todoRow is the cursor in the visible todo list.
	todoRow int
	// historyRow is the selected history entry; -1 follows the newest.
	historyRow int

	viewport viewport.Model

	adding bool
	input  textinput.Model
}

// New creates a new Bubble Tea model bound to opts.Store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	mappings := []actions.MapStateWithActions{actions.Keys(opts.DomainKeys...)}
	if opts.Selectors != nil {
		mappings = append(mappings, opts.Selectors)
	}
	mapState := actions.WithActions(opts.Tree, actions.Merge(mappings...))

	input := textinput.New()
	input.Placeholder = "todo title"
	input.Prompt = "add: "
	input.CharLimit = 120

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		recorder:    opts.Recorder,
		strategy:    opts.Strategy,
		prefsPath:   prefsPath,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: parseView(opts.Prefs.View),
		showDiff:    opts.Prefs.ShowDiff,
		historyRow:  -1,
		input:       input,
	}
	if opts.Store != nil {
		m.binding = bind(opts.Store, mapState)
		m.props = m.binding.current()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.binding != nil {
		cmds = append(cmds, m.binding.wait(m.ctx))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, m.contentHeight())
		}
		m.viewport.Width = m.width
		m.viewport.Height = m.contentHeight()
		m.input.Width = m.width - len(m.input.Prompt) - 2
		m.ready = true
		m.refreshContent()
		return m, nil

	case propsMsg:
		m.props = msg
		m.todoRow = clamp(m.todoRow, len(m.visibleTodos()))
		m.refreshContent()
		return m, m.binding.wait(m.ctx)

	case dispatchedMsg:
		m.lastErr = msg.err
		if msg.err != nil {
			m.logger.Debug("ui: dispatch failed", "action", msg.name, "error", msg.err)
		}
		return m, nil
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.adding {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.binding != nil {
			m.binding.close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewState {
			return m.switchView(ViewHistory), nil
		}
		return m.switchView(ViewState), nil

	case key.Matches(msg, m.keys.ViewState):
		return m.switchView(ViewState), nil

	case key.Matches(msg, m.keys.ViewHistory):
		return m.switchView(ViewHistory), nil

	case key.Matches(msg, m.keys.ToggleDiff):
		m.showDiff = !m.showDiff
		m.savePrefs()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		m.undo()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.Increment):
		return m, m.dispatch(demo.Counter, "increment")

	case key.Matches(msg, m.keys.Decrement):
		return m, m.dispatch(demo.Counter, "decrement")

	case key.Matches(msg, m.keys.ResetCounter):
		return m, m.dispatch(demo.Counter, "reset")

	case key.Matches(msg, m.keys.IncrementLater):
		return m, m.dispatch(demo.Counter, "incrementLater", "1s")
	}

	switch m.currentView {
	case ViewState:
		return m.handleStateKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) switchView(v View) Model {
	if m.currentView == v {
		return m
	}
	m.currentView = v
	m.viewport.GotoTop()
	m.savePrefs()
	m.refreshContent()
	return m
}

// handleStateKey moves the todo cursor and runs todo actions.
func (m Model) handleStateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	todos := m.visibleTodos()

	switch {
	case key.Matches(msg, m.keys.AddTodo):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.ClearCompleted):
		return m, m.dispatch(demo.Todos, "clearCompleted")

	case key.Matches(msg, m.keys.CycleFilter):
		return m, m.dispatch(demo.Todos, "setFilter", nextFilter(m.todoFilter()))

	case key.Matches(msg, m.keys.Down):
		m.todoRow = clamp(m.todoRow+1, len(todos))
	case key.Matches(msg, m.keys.Up):
		m.todoRow = clamp(m.todoRow-1, len(todos))
	case key.Matches(msg, m.keys.Top):
		m.todoRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.todoRow = clamp(len(todos)-1, len(todos))

	case key.Matches(msg, m.keys.ToggleTodo):
		if len(todos) > 0 {
			return m, m.dispatch(demo.Todos, "toggle", todos[m.todoRow].id)
		}
	case key.Matches(msg, m.keys.RemoveTodo):
		if len(todos) > 0 {
			return m, m.dispatch(demo.Todos, "remove", todos[m.todoRow].id)
		}
	}
	m.refreshContent()
	return m, nil
}

// handleHistoryKey moves the history selection.
func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.historyLen()
	if n == 0 {
		return m, nil
	}
	row := m.selectedHistoryRow(n)

	switch {
	case key.Matches(msg, m.keys.Down):
		row++
	case key.Matches(msg, m.keys.Up):
		row--
	case key.Matches(msg, m.keys.Top):
		row = 0
	case key.Matches(msg, m.keys.Bottom):
		row = n - 1
	default:
		return m, nil
	}

	row = clamp(row, n)
	if row == n-1 {
		row = -1
	}
	m.historyRow = row
	m.refreshContent()
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		title := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		return m, m.dispatch(demo.Todos, "add", title)

	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// undo steps the store back to the state before the newest recorded
// transition.
func (m *Model) undo() {
	if m.recorder == nil || m.store == nil {
		return
	}
	prev, ok := m.recorder.Undo()
	if !ok {
		m.lastErr = fmt.Errorf("nothing to undo")
		return
	}
	m.lastErr = nil
	m.store.Reset(prev)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String(), ShowDiff: m.showDiff}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("ui: save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m Model) contentHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		return 1
	}
	return h
}

// refreshContent re-renders the active view into the viewport.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	switch m.currentView {
	case ViewHistory:
		m.viewport.SetContent(m.renderHistory())
	default:
		m.viewport.SetContent(m.renderState())
	}
}

func (m Model) historyLen() int {
	if m.recorder == nil {
		return 0
	}
	return m.recorder.Len()
}

func (m Model) selectedHistoryRow(n int) int {
	if m.historyRow < 0 || m.historyRow >= n {
		return n - 1
	}
	return m.historyRow
}

// Messages

type dispatchedMsg struct {
	name string
	err  error
}

// Commands

// dispatch runs a bound action from the connected props off the UI
// goroutine; async actions may block.
func (m Model) dispatch(domain, name string, args ...any) tea.Cmd {
	fn, ok := m.props.props.Actions[domain][name]
	if !ok {
		return func() tea.Msg {
			return dispatchedMsg{name: name, err: fmt.Errorf("no action %s", actions.Type(domain, name))}
		}
	}
	return func() tea.Msg {
		return dispatchedMsg{name: name, err: fn(args...)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if m.binding != nil {
		m.binding.close()
	}
	return err
}
