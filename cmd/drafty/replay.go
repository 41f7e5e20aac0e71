package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/five82/drafty/internal/app"
	"github.com/five82/drafty/internal/history"
	"github.com/five82/drafty/internal/seed"
	"github.com/five82/drafty/internal/value"
)

func replay(cfg *ReplayConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Replay.Parse(cc, args)
	if err != nil {
		cfg.Replay.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: replay requires 1 script, got %v", cli.ErrUsage, args)
	}
	script, err := seed.LoadScript(args[0])
	if err != nil {
		return err
	}

	rt, err := app.Setup(cfg.appOptions())
	if err != nil {
		return err
	}
	defer rt.Close()

	p := newPainter(cfg.colorize(cc.Out))
	failed := 0
	err = rt.Replay(script, func(s app.Step) error {
		if s.Err != nil {
			failed++
		}
		if cfg.Quiet {
			return nil
		}
		return p.writeStep(cc.Out, s, cfg.Context)
	})
	if err != nil {
		return err
	}

	if cfg.Quiet {
		out, err := value.Indent(rt.Store.State())
		if err != nil {
			return err
		}
		fmt.Fprintln(cc.Out, out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d actions failed", failed, len(script))
	}
	return nil
}

// painter colors replay output.
type painter struct {
	header, add, del, same, fail func(a ...any) string
}

func newPainter(enabled bool) painter {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return painter{
		header: mk(color.FgCyan, color.Bold),
		add:    mk(color.FgGreen),
		del:    mk(color.FgRed),
		same:   mk(color.Faint),
		fail:   mk(color.FgRed, color.Bold),
	}
}

func (p painter) writeStep(w io.Writer, s app.Step, context int) error {
	head := fmt.Sprintf("#%d %s", s.Index+1, s.Action.Type)
	if s.Action.Payload != nil {
		payload, err := json.Marshal(s.Action.Payload)
		if err != nil {
			return err
		}
		head += " " + string(payload)
	}
	if _, err := fmt.Fprintln(w, p.header(head)); err != nil {
		return err
	}

	if s.Err != nil {
		_, err := fmt.Fprintln(w, p.fail("error: "+s.Err.Error()))
		return err
	}
	if !history.Changed(s.Lines) {
		_, err := fmt.Fprintln(w, p.same("  (no change)"))
		return err
	}
	for _, line := range strings.Split(strings.TrimRight(history.Render(s.Lines, context), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+ "):
			line = p.add(line)
		case strings.HasPrefix(line, "- "):
			line = p.del(line)
		default:
			line = p.same(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
