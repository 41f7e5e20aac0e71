package history

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/five82/drafty/internal/value"
)

// Op classifies a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a state diff.
type Line struct {
	Op   Op
	Text string
}

// Diff compares the indented JSON forms of prev and next line by line.
func Diff(prev, next any) ([]Line, error) {
	from, err := value.Indent(prev)
	if err != nil {
		return nil, err
	}
	to, err := value.Indent(next)
	if err != nil {
		return nil, err
	}

	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return out, nil
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Render formats lines with "+", "-" and " " markers, keeping context
// unchanged lines around every change. A negative context keeps all lines.
func Render(lines []Line, context int) string {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if context < 0 || l.Op != Equal {
			keep[i] = true
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			if lines[j].Op != Equal {
				keep[i] = true
				break
			}
		}
	}

	var b strings.Builder
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			b.WriteString("  ...\n")
			skipped = false
		}
		b.WriteString(marker(l.Op))
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	if skipped {
		b.WriteString("  ...\n")
	}
	return b.String()
}

func marker(op Op) string {
	switch op {
	case Insert:
		return "+ "
	case Delete:
		return "- "
	default:
		return "  "
	}
}
