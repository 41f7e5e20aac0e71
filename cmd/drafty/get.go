package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/app"
	"github.com/five82/drafty/internal/seed"
	"github.com/five82/drafty/internal/selector"
	"github.com/five82/drafty/internal/value"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: get requires <expr> [script], got %v", cli.ErrUsage, args)
	}
	sel, err := selector.Compile(args[0])
	if err != nil {
		return err
	}

	var script []actions.Action
	if len(args) == 2 {
		if script, err = seed.LoadScript(args[1]); err != nil {
			return err
		}
	}

	rt, err := app.Setup(cfg.appOptions())
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Replay(script, nil); err != nil {
		return err
	}
	out, err := sel.Select(rt.Store.State())
	if err != nil {
		return err
	}
	text, err := value.Indent(out)
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, text)
	return nil
}
