package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/drafty/internal/draft"
)

// Config captures the runtime settings of drafty.
type Config struct {
	Strategy     draft.Strategy
	AutoFreeze   bool
	HistoryLimit int
	SeedPath     string
	Tick         time.Duration
	LogFile      string
	LogLevel     slog.Level
}

const (
	defaultConfigPath   = "~/.config/drafty/config.toml"
	defaultHistoryLimit = 200
	defaultTick         = time.Second
)

// raw mirrors the TOML file; environment variables override it.
type raw struct {
	Strategy     string `toml:"strategy" env:"DRAFTY_STRATEGY"`
	AutoFreeze   *bool  `toml:"auto_freeze" env:"DRAFTY_AUTO_FREEZE"`
	HistoryLimit *int   `toml:"history_limit" env:"DRAFTY_HISTORY_LIMIT"`
	Seed         string `toml:"seed" env:"DRAFTY_SEED"`
	Tick         string `toml:"tick" env:"DRAFTY_TICK"`
	LogFile      string `toml:"log_file" env:"DRAFTY_LOG_FILE"`
	LogLevel     string `toml:"log_level" env:"DRAFTY_LOG_LEVEL"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Strategy:     draft.Reflective,
		AutoFreeze:   true,
		HistoryLimit: defaultHistoryLimit,
		Tick:         defaultTick,
		LogLevel:     slog.LevelInfo,
	}
}

// Load reads the config file, falling back to defaults when it is
// missing, and applies DRAFTY_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var r raw
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.Parse(&r); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return r.resolve()
}

func (r raw) resolve() (Config, error) {
	cfg := Default()

	strategy, err := draft.ParseStrategy(r.Strategy)
	if err != nil {
		return Config{}, fmt.Errorf("strategy: %w", err)
	}
	cfg.Strategy = strategy

	if r.AutoFreeze != nil {
		cfg.AutoFreeze = *r.AutoFreeze
	}
	if r.HistoryLimit != nil {
		if *r.HistoryLimit < 0 {
			return Config{}, fmt.Errorf("history_limit must not be negative, got %d", *r.HistoryLimit)
		}
		cfg.HistoryLimit = *r.HistoryLimit
	}

	if tick := strings.TrimSpace(r.Tick); tick != "" {
		d, err := time.ParseDuration(tick)
		if err != nil {
			return Config{}, fmt.Errorf("tick: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("tick must not be negative, got %s", d)
		}
		cfg.Tick = d
	}

	if level := strings.TrimSpace(r.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("log_level: %w", err)
		}
	}

	if seed := strings.TrimSpace(r.Seed); seed != "" {
		cfg.SeedPath = mustExpand(seed)
	}
	if logFile := strings.TrimSpace(r.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	return cfg, nil
}

// EngineOptions returns the draft engine options the config selects.
func (c Config) EngineOptions() []draft.Option {
	return []draft.Option{
		draft.WithStrategy(c.Strategy),
		draft.WithAutoFreeze(c.AutoFreeze),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
