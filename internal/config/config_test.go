package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todoview/internal/view"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoview", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if cfg.DBPath != filepath.Join(filepath.Dir(path), DefaultDBName) {
		t.Fatalf("db path not resolved against config dir: %q", cfg.DBPath)
	}
	if cfg.Keys.SortPriority != "sp" || cfg.Keys.SortDue != "sd" {
		t.Fatalf("unexpected default keys %+v", cfg.Keys)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != cfg {
		t.Fatalf("reloaded config differs:\n%+v\n%+v", again, cfg)
	}
}

func TestLoadOrCreate_ReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `db_path = "/var/lib/todo.db"
default_filter = "open"
default_sort = "deadline,priority"
auto_progress = false
default_reminder = "2h"

[keys]
quit = "Q"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DBPath != "/var/lib/todo.db" {
		t.Fatalf("absolute db path should be kept, got %q", cfg.DBPath)
	}
	if cfg.LogPath != filepath.Join(dir, DefaultLogName) {
		t.Fatalf("missing log path should default, got %q", cfg.LogPath)
	}
	if cfg.Keys.Quit != "Q" || cfg.Keys.Up != "k" {
		t.Fatalf("keymap should merge over defaults, got %+v", cfg.Keys)
	}
	if got := cfg.Criterion(); got.Filter != view.OnlyOpen {
		t.Fatalf("unexpected criterion %+v", got)
	}
	if got := cfg.SortMask(); got != view.SortByPriority|view.SortByDeadline {
		t.Fatalf("unexpected sort mask %v", got)
	}
	vc := cfg.ViewConfig()
	if vc.AutoProgress || vc.DefaultReminder != 2*time.Hour {
		t.Fatalf("unexpected view config %+v", vc)
	}
}

func TestLoadOrCreate_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"filter":   `default_filter = "someday"`,
		"sort":     `default_sort = "alphabetical"`,
		"reminder": `default_reminder = "soon"`,
		"syntax":   `default_filter = `,
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadOrCreate(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	if got := ResolveConfigPath(); got != "/tmp/custom.toml" {
		t.Fatalf("env override ignored: %q", got)
	}
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if got := ResolveConfigPath(); !strings.HasSuffix(got, filepath.Join(AppName, DefaultConfigFileName)) {
		t.Fatalf("unexpected default path %q", got)
	}
}
