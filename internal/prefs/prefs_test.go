package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if p := Load(""); p != Default() {
		t.Fatalf("Load = %+v, want %+v", p, Default())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePrefs(t, filepath.Join(home, ".config", "drafty", "prefs.toml"), "theme = \"Slate\"\nview = \"History\"\nshow_diff = false\n")

	p := Load("")
	want := Prefs{Theme: "Slate", View: "history", ShowDiff: false}
	if p != want {
		t.Fatalf("Load = %+v, want %+v", p, want)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	in := Prefs{Theme: "Kanagawa", View: "history", ShowDiff: true}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path); got != in {
		t.Fatalf("Load = %+v, want %+v", got, in)
	}
}

func TestLoad_NormalizesEmptyAndUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	writePrefs(t, path, "theme = \"  \"\nview = \"sideways\"\n")

	p := Load(path)
	if p.Theme != defaultTheme || p.View != defaultView {
		t.Fatalf("Load = %+v, want default theme and view", p)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	writePrefs(t, path, "not valid toml {{{\n")

	if p := Load(path); p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}
