package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/five82/drafty/internal/app"
)

type MainConfig struct {
	Config string `cli:"name=config desc='config file (default ~/.config/drafty/config.toml)'"`
	Prefs  string `cli:"name=prefs desc='preferences file (default ~/.config/drafty/prefs.toml)'"`
	Seed   string `cli:"name=seed desc='seed file overriding the configured one'"`
	Color  bool   `cli:"name=color desc='color replay output even when not on a terminal'"`

	ctx  context.Context
	Main *cli.Command
}

func (cfg *MainConfig) appOptions() app.Options {
	return app.Options{ConfigPath: cfg.Config, PrefsPath: cfg.Prefs, SeedPath: cfg.Seed}
}

// colorize reports whether output to w gets ANSI colors: always with
// -color, otherwise only on a terminal.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func MainCommand(ctx context.Context) *cli.Command {
	cfg := &MainConfig{ctx: ctx}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "drafty").
		WithSynopsis("drafty [opts] [command [opts]]").
		WithDescription("drafty runs copy-on-write reducers over a small demo store.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return draftyMain(cfg, cc, args)
		}).
		WithSubs(
			TUICommand(cfg),
			ReplayCommand(cfg),
			GetCommand(cfg))
}

func draftyMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return tui(cfg, cc, nil)
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

type TUIConfig struct {
	*MainConfig
	TUI *cli.Command
}

func TUICommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TUIConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.TUI, "tui").
		WithAliases("t").
		WithSynopsis("tui").
		WithDescription("run the terminal UI (default)").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.TUI.Parse(cc, args)
			if err != nil {
				return err
			}
			return tui(cfg.MainConfig, cc, args)
		})
}

func tui(cfg *MainConfig, _ *cli.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: tui takes no arguments, got %v", cli.ErrUsage, args)
	}
	return app.Run(cfg.ctx, cfg.appOptions())
}

type ReplayConfig struct {
	*MainConfig
	Context int  `cli:"name=context desc='unchanged lines shown around each change (-1 shows all)'"`
	Quiet   bool `cli:"name=q desc='print only the final state'"`

	Replay *cli.Command
}

func ReplayCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReplayConfig{MainConfig: mainCfg, Context: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Replay, "replay").
		WithAliases("r").
		WithSynopsis("replay [-context n] [-q] <script>").
		WithDescription("dispatch a YAML, JSON or TOML action script and print each state diff").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return replay(cfg, cc, args)
		})
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <expr> [script]").
		WithDescription("evaluate a selector expression against the state, after replaying script if given").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}
