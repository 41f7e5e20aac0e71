package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/demo"
	"github.com/five82/drafty/internal/history"
	"github.com/five82/drafty/internal/prefs"
	"github.com/five82/drafty/internal/selector"
	"github.com/five82/drafty/internal/state"
	"github.com/five82/drafty/internal/value"
)

type harness struct {
	t     *testing.T
	m     Model
	store *state.Store
	rec   *history.Recorder
	prefs string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bundle := actions.Build(demo.Definitions())
	rec := history.NewRecorder(0)
	store, err := state.New(bundle.Reduce, state.WithObserver(rec.Observe))
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	selectors, err := selector.Map(demo.Selectors())
	if err != nil {
		t.Fatalf("selector.Map: %v", err)
	}
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Store:      store,
		Tree:       bundle.Actions(store),
		Recorder:   rec,
		DomainKeys: bundle.DomainKeys(),
		Selectors:  selectors,
		Strategy:   "reflective",
		Prefs:      prefs.Default(),
		PrefsPath:  path,
	})
	t.Cleanup(m.binding.close)

	h := &harness{t: t, m: m, store: store, rec: rec, prefs: path}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// press sends a key and runs the dispatch it starts, then delivers the
// resulting store notification.
func (h *harness) press(keys string) {
	h.t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	cmd := h.send(msg)
	// While the input is open, cmd only drives the cursor blink.
	if cmd == nil || h.m.adding {
		return
	}
	if d, ok := cmd().(dispatchedMsg); ok {
		h.send(d)
		h.sync()
	}
}

// sync delivers the pending store notification, if any.
func (h *harness) sync() {
	h.t.Helper()
	select {
	case <-h.m.binding.changed:
		h.send(h.m.binding.current())
	default:
	}
}

func (h *harness) counter() int64 {
	h.t.Helper()
	root := h.store.State().(*value.Object)
	n, _ := value.Int(root.Value(demo.Counter).(*value.Object).Value("value"))
	return n
}

func TestModel_DispatchesBoundActions(t *testing.T) {
	h := newHarness(t)
	h.press("+")
	h.press("+")
	h.press("-")

	if got := h.counter(); got != 1 {
		t.Fatalf("counter = %d, want 1", got)
	}
	if h.m.props.snap.Version != 3 {
		t.Fatalf("props version = %d, want 3", h.m.props.snap.Version)
	}
	if got, _ := value.Int(h.m.props.props.Selected["total"]); got != 1 {
		t.Fatalf("selected total = %v, want 1", h.m.props.props.Selected["total"])
	}
	if !strings.Contains(h.m.View(), "counter__decrement") {
		t.Fatalf("header does not show the last action")
	}
}

func TestModel_AddToggleAndRemoveTodo(t *testing.T) {
	h := newHarness(t)
	for _, title := range []string{"milk", "eggs"} {
		h.press("a")
		if !h.m.adding {
			t.Fatalf("a did not open the input")
		}
		h.press(title)
		h.press("enter")
	}

	todos := h.m.visibleTodos()
	if len(todos) != 2 || todos[0].title != "milk" || todos[1].title != "eggs" {
		t.Fatalf("todos = %+v", todos)
	}

	h.press("j")
	h.press("x")
	if todos := h.m.visibleTodos(); !todos[1].done || todos[0].done {
		t.Fatalf("toggle hit the wrong row: %+v", todos)
	}

	h.press("f")
	if got := h.m.todoFilter(); got != demo.FilterActive {
		t.Fatalf("filter = %q, want active", got)
	}
	if todos := h.m.visibleTodos(); len(todos) != 1 || todos[0].title != "milk" {
		t.Fatalf("active todos = %+v", todos)
	}
	if h.m.todoRow != 0 {
		t.Fatalf("todoRow = %d, want it clamped to 0", h.m.todoRow)
	}

	h.press("d")
	if todos := h.m.visibleTodos(); len(todos) != 0 {
		t.Fatalf("todos after remove = %+v", todos)
	}
}

func TestModel_EmptyInputDispatchesNothing(t *testing.T) {
	h := newHarness(t)
	h.press("a")
	h.press("esc")
	if h.m.adding {
		t.Fatalf("esc did not close the input")
	}
	h.press("a")
	h.press("enter")
	if h.rec.Len() != 0 {
		t.Fatalf("history has %d entries, want 0", h.rec.Len())
	}
}

func TestModel_UndoResetsStore(t *testing.T) {
	h := newHarness(t)
	h.press("+")
	h.press("+")

	h.press("u")
	h.sync()
	if got := h.counter(); got != 1 {
		t.Fatalf("counter after undo = %d, want 1", got)
	}
	if h.m.props.snap.LastAction.Type != state.ResetAction {
		t.Fatalf("last action = %q, want reset", h.m.props.snap.LastAction.Type)
	}

	h.press("u")
	h.press("u")
	if h.m.lastErr == nil {
		t.Fatalf("undo with empty history should report an error")
	}
}

func TestModel_DispatchErrorIsShown(t *testing.T) {
	h := newHarness(t)
	cmd := h.m.dispatch(demo.Counter, "setStep", int64(-3))
	h.send(cmd())
	h.sync()
	if h.m.lastErr == nil || !strings.Contains(h.m.View(), "step must be positive") {
		t.Fatalf("dispatch error not shown: %v", h.m.lastErr)
	}

	cmd = h.m.dispatch("nobody", "home")
	h.send(cmd())
	if h.m.lastErr == nil || !strings.Contains(h.m.lastErr.Error(), "nobody__home") {
		t.Fatalf("unknown action error = %v", h.m.lastErr)
	}
}

func TestModel_HistorySelection(t *testing.T) {
	h := newHarness(t)
	h.press("+")
	h.press("+")
	h.press("+")

	h.press("y")
	if h.m.currentView != ViewHistory {
		t.Fatalf("view = %v, want history", h.m.currentView)
	}
	h.press("k")
	if h.m.historyRow != 1 {
		t.Fatalf("historyRow = %d, want 1", h.m.historyRow)
	}
	h.press("g")
	if h.m.historyRow != 0 {
		t.Fatalf("historyRow = %d, want 0", h.m.historyRow)
	}
	h.press("G")
	if h.m.historyRow != -1 {
		t.Fatalf("historyRow = %d, want -1 (follow newest)", h.m.historyRow)
	}
	if !strings.Contains(h.m.renderHistory(), `"value": 3`) {
		t.Fatalf("history diff does not show the newest value:\n%s", h.m.renderHistory())
	}
}

func TestModel_ThemeAndViewPersist(t *testing.T) {
	h := newHarness(t)
	h.press("T")
	h.press("D")
	h.press("y")

	got := prefs.Load(h.prefs)
	want := prefs.Prefs{Theme: "Kanagawa", View: "history", ShowDiff: false}
	if got != want {
		t.Fatalf("saved prefs = %+v, want %+v", got, want)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	h := newHarness(t)
	h.press("?")
	if !h.m.showHelp || !strings.Contains(h.m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	h.press("+")
	if h.m.showHelp {
		t.Fatalf("any key should close help")
	}
	if h.rec.Len() != 0 {
		t.Fatalf("key closing help was dispatched")
	}
}

func TestBinding_CoalescesNotifications(t *testing.T) {
	h := newHarness(t)
	tree := h.m.props.props.Actions
	for i := 0; i < 5; i++ {
		if err := tree[demo.Counter]["increment"](); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	msg := h.m.binding.wait(context.Background())()
	p, ok := msg.(propsMsg)
	if !ok || p.snap.Version != 5 {
		t.Fatalf("wait returned %#v, want props at version 5", msg)
	}
	select {
	case <-h.m.binding.changed:
		t.Fatalf("notifications were not coalesced")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if msg := h.m.binding.wait(ctx)(); msg != nil {
		t.Fatalf("wait after cancel = %#v, want nil", msg)
	}
}
