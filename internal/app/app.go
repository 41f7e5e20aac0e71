package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/config"
	"github.com/five82/drafty/internal/demo"
	"github.com/five82/drafty/internal/draft"
	"github.com/five82/drafty/internal/history"
	"github.com/five82/drafty/internal/prefs"
	"github.com/five82/drafty/internal/seed"
	"github.com/five82/drafty/internal/selector"
	"github.com/five82/drafty/internal/state"
	"github.com/five82/drafty/internal/ui"
)

// Options configure the drafty application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/drafty/prefs.toml
	// SeedPath overrides the config's seed file.
	SeedPath string
}

// Runtime holds the wired components of one drafty session.
type Runtime struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *draft.Engine
	Bundle   *actions.Bundle
	Store    *state.Store
	Recorder *history.Recorder
	Tree     actions.Tree

	closeLog func() error
}

// Setup loads the configuration and seeds and wires the engine, bundle,
// history and store. Callers must Close the runtime.
func Setup(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.SeedPath != "" {
		cfg.SeedPath = opts.SeedPath
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	rt, err := wire(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	rt.closeLog = closeLog
	return rt, nil
}

func wire(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	defs := demo.Definitions()
	if cfg.SeedPath != "" {
		overrides, err := seed.LoadDefaults(cfg.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		defs, err = seed.Apply(defs, overrides)
		if err != nil {
			return nil, fmt.Errorf("apply seed: %w", err)
		}
		logger.Info("app: seeded defaults", "path", cfg.SeedPath, "domains", len(overrides))
	}

	engine := draft.New(append(cfg.EngineOptions(), draft.WithLogger(logger))...)
	bundle := actions.Build(defs, actions.WithEngine(engine), actions.WithLogger(logger))
	recorder := history.NewRecorder(cfg.HistoryLimit, history.WithLogger(logger))

	store, err := state.New(bundle.Reduce,
		state.WithObserver(recorder.Observe),
		state.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info("app: ready",
		"strategy", cfg.Strategy,
		"auto_freeze", cfg.AutoFreeze,
		"domains", bundle.DomainKeys(),
	)
	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Engine:   engine,
		Bundle:   bundle,
		Store:    store,
		Recorder: recorder,
		Tree:     bundle.Actions(store),
		closeLog: func() error { return nil },
	}, nil
}

// Close releases the log file.
func (r *Runtime) Close() error {
	if r.closeLog == nil {
		return nil
	}
	return r.closeLog()
}

// Run boots the drafty TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Setup(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	selectors, err := selector.Map(demo.Selectors())
	if err != nil {
		return fmt.Errorf("compile selectors: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	StartTicker(ctx, rt.Store, rt.Config.Tick, rt.Logger)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return ui.Run(ui.Options{
		Context:    ctx,
		Store:      rt.Store,
		Tree:       rt.Tree,
		Recorder:   rt.Recorder,
		DomainKeys: rt.Bundle.DomainKeys(),
		Selectors:  selectors,
		Strategy:   rt.Engine.Strategy().String(),
		Prefs:      prefs.Load(prefsPath),
		PrefsPath:  prefsPath,
		Logger:     rt.Logger,
	})
}

// newLogger writes to the configured log file. Without one, logs are
// discarded so the TUI owns the terminal.
func newLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, handlerOpts)), f.Close, nil
}
