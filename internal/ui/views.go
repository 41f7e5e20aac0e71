package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/drafty/internal/demo"
	"github.com/five82/drafty/internal/history"
	"github.com/five82/drafty/internal/value"
)

// todoRow is one line of the visible todo list.
type todoRow struct {
	id    int64
	title string
	done  bool
}

func (m Model) todosState() *value.Object {
	o, _ := m.props.props.State[demo.Todos].(*value.Object)
	return o
}

func (m Model) todoFilter() string {
	if o := m.todosState(); o != nil {
		if f, ok := o.Value("filter").(string); ok {
			return f
		}
	}
	return demo.FilterAll
}

func nextFilter(current string) string {
	switch current {
	case demo.FilterAll:
		return demo.FilterActive
	case demo.FilterActive:
		return demo.FilterDone
	default:
		return demo.FilterAll
	}
}

// visibleTodos lists the todos the current filter shows.
func (m Model) visibleTodos() []todoRow {
	o := m.todosState()
	if o == nil {
		return nil
	}
	items, ok := o.Value("items").(*value.Array)
	if !ok {
		return nil
	}
	filter := m.todoFilter()
	rows := make([]todoRow, 0, items.Len())
	for _, it := range items.Items() {
		item, ok := it.(*value.Object)
		if !ok {
			continue
		}
		id, _ := value.Int(item.Value("id"))
		title, _ := item.Value("title").(string)
		done, _ := item.Value("done").(bool)
		if (filter == demo.FilterActive && done) || (filter == demo.FilterDone && !done) {
			continue
		}
		rows = append(rows, todoRow{id: id, title: title, done: done})
	}
	return rows
}

// renderHeader renders the status line: logo, strategy, version, history
// size and the last action.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	snap := m.props.snap

	parts := []string{
		bg.Render("drafty", styles.Logo),
		bg.Render(m.strategy, styles.AccentText),
		bg.Render(fmt.Sprintf("v%d", snap.Version), styles.Text),
		bg.Render(fmt.Sprintf("%d entries", m.historyLen()), styles.MutedText),
	}
	if typ := snap.LastAction.Type; typ != "" {
		domain := snap.LastAction.Domain()
		if strings.HasPrefix(typ, "@@") {
			domain = "@@"
		}
		parts = append(parts, styles.DomainStyle(domain).Render(typ))
	}
	if snap.IsFailing() {
		parts = append(parts, bg.Render(fmt.Sprintf("%d failures", snap.ConsecutiveFailures), styles.DangerText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderCommandBar renders the view tabs and the short help.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	tab := func(v View, label string) string {
		if m.currentView == v {
			return styles.Selected.Render(" " + label + " ")
		}
		return bg.Render(" "+label+" ", styles.MutedText)
	}
	parts := []string{tab(ViewState, "[s]tate"), tab(ViewHistory, "[y]history")}
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, bg.Render(h.Key+" "+strings.ToLower(h.Desc), styles.FaintText))
	}
	parts = append(parts, bg.Render(m.theme.Name, styles.FaintText))
	return bg.FillLine(bg.Join(parts, " "), m.width)
}

// renderFooter shows the add-todo input, the latest error, or nothing.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	switch {
	case m.adding:
		return m.input.View()
	case m.lastErr != nil:
		return styles.DangerText.Render(truncate(m.lastErr.Error(), m.width))
	case m.props.props.Err != nil:
		return styles.WarningText.Render(truncate(m.props.props.Err.Error(), m.width))
	}
	return ""
}

// renderState renders the domain panels, the selectors and the raw tree.
func (m Model) renderState() string {
	styles := m.theme.Styles()
	panels := []string{
		styles.Panel.Render(m.renderCounter()),
		styles.Panel.Render(m.renderTodos()),
		styles.Panel.Render(m.renderClock() + "\n\n" + m.renderSelected()),
	}

	var top string
	if m.width < LayoutCompactWidth {
		top = lipgloss.JoinVertical(lipgloss.Left, panels...)
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}

	raw, err := value.Indent(m.props.snap.State)
	if err != nil {
		raw = styles.DangerText.Render(err.Error())
	}
	return top + "\n" + styles.MutedText.Render(raw)
}

func (m Model) domainInt(domain, key string) int64 {
	o, _ := m.props.props.State[domain].(*value.Object)
	if o == nil {
		return 0
	}
	n, _ := value.Int(o.Value(key))
	return n
}

func (m Model) renderCounter() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Counter"))
	b.WriteString("\n")
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("%d", m.domainInt(demo.Counter, "value"))))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("step %d", m.domainInt(demo.Counter, "step"))))
	return b.String()
}

func (m Model) renderTodos() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Todos"))
	b.WriteString(styles.FaintText.Render(" (" + m.todoFilter() + ")"))
	b.WriteString("\n")

	todos := m.visibleTodos()
	if len(todos) == 0 {
		b.WriteString(styles.FaintText.Render("nothing here, press a to add"))
		return b.String()
	}
	for i, t := range todos {
		mark := "[ ]"
		style := styles.Text
		if t.done {
			mark = "[x]"
			style = styles.MutedText.Strikethrough(true)
		}
		line := padRight(fmt.Sprintf("%s %d %s", mark, t.id, truncate(t.title, 40)), 46)
		if i == m.todoRow && m.currentView == ViewState {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		if i < len(todos)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderClock() string {
	styles := m.theme.Styles()
	o, _ := m.props.props.State[demo.Clock].(*value.Object)
	last := ""
	if o != nil {
		last, _ = o.Value("last").(string)
	}
	if last == "" {
		last = "never"
	}
	return styles.AccentText.Bold(true).Render("Clock") + "\n" +
		styles.Text.Render(fmt.Sprintf("%d ticks", m.domainInt(demo.Clock, "ticks"))) + "\n" +
		styles.MutedText.Render("last "+last)
}

func (m Model) renderSelected() string {
	styles := m.theme.Styles()
	selected := m.props.props.Selected
	names := make([]string, 0, len(selected))
	for n := range selected {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Selectors"))
	for _, n := range names {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(padRight(n, 10)))
		b.WriteString(styles.Text.Render(fmt.Sprint(selected[n])))
	}
	return b.String()
}

// renderHistory renders the transition list and, when enabled, the diff
// of the selected entry.
func (m Model) renderHistory() string {
	styles := m.theme.Styles()
	if m.recorder == nil {
		return styles.FaintText.Render("history is disabled")
	}
	entries := m.recorder.Entries()
	if len(entries) == 0 {
		return styles.FaintText.Render("no actions yet")
	}
	row := m.selectedHistoryRow(len(entries))

	start := 0
	if len(entries) > historyListHeight {
		start = clamp(row-historyListHeight/2, len(entries)-historyListHeight+1)
	}
	end := min(start+historyListHeight, len(entries))

	var b strings.Builder
	for i := start; i < end; i++ {
		e := entries[i]
		patch := truncate(string(e.Patch), max(m.width-48, 10))
		line := fmt.Sprintf("%4d  %s  %-28s %s", e.Seq, e.At.Format("15:04:05"), truncate(e.Action.Type, 28), patch)
		switch {
		case i == row:
			b.WriteString(styles.Selected.Render(padRight(line, m.width)))
		case !e.Changed():
			b.WriteString(styles.FaintText.Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	if !m.showDiff {
		return b.String()
	}
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.renderDiff(entries[row]))
	return b.String()
}

func (m Model) renderDiff(e history.Entry) string {
	styles := m.theme.Styles()
	lines, err := history.Diff(e.Prev, e.Next)
	if err != nil {
		return styles.DangerText.Render(err.Error())
	}
	if !history.Changed(lines) {
		return styles.FaintText.Render("no changes")
	}
	rendered := strings.Split(history.Render(lines, diffContext), "\n")
	for i, line := range rendered {
		switch {
		case strings.HasPrefix(line, "+ "):
			rendered[i] = styles.SuccessText.Render(line)
		case strings.HasPrefix(line, "- "):
			rendered[i] = styles.DangerText.Render(line)
		default:
			rendered[i] = styles.MutedText.Render(line)
		}
	}
	return strings.Join(rendered, "\n")
}
