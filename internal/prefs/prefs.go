// Package prefs persists drafty's UI preferences in
// ~/.config/drafty/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds the UI preferences that survive restarts.
type Prefs struct {
	Theme    string `toml:"theme"`
	View     string `toml:"view"`      // "state" or "history"
	ShowDiff bool   `toml:"show_diff"` // history view shows the selected entry's diff
}

const (
	defaultPrefsPath = "~/.config/drafty/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultView      = "state"
)

// Default returns the preferences used when none are stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, View: defaultView, ShowDiff: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Any failure degrades to defaults; a
// broken prefs file never keeps the UI from starting.
func Load(path string) Prefs {
	p := Default()
	resolved, err := resolvePath(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default()
	}
	return p.normalize()
}

func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	switch strings.ToLower(strings.TrimSpace(p.View)) {
	case "history":
		p.View = "history"
	default:
		p.View = defaultView
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
