package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "calcnerd" {
		t.Errorf("expected Name=calcnerd, got %s", cfg.Name)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Errorf("expected Theme=dark, got %s", cfg.UI.Theme)
	}
	if cfg.History.Limit != 50 {
		t.Errorf("expected History.Limit=50, got %d", cfg.History.Limit)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("expected Driver=sqlite, got %s", cfg.Storage.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.Theme = ThemeLight
	cfg.History.Limit = 10
	cfg.Export.S3.Bucket = "calc-exports"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.UI.Theme != ThemeLight {
		t.Errorf("expected Theme=light, got %s", loaded.UI.Theme)
	}
	if loaded.History.Limit != 10 {
		t.Errorf("expected Limit=10, got %d", loaded.History.Limit)
	}
	if !loaded.Export.S3.Enabled() {
		t.Error("expected S3 export to be enabled")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  theme: light\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != ThemeLight {
		t.Errorf("expected light, got %s", cfg.UI.Theme)
	}
	if cfg.History.Limit != 50 {
		t.Errorf("expected default limit to survive, got %d", cfg.History.Limit)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }},
		{"zero limit", func(c *Config) { c.History.Limit = 0 }},
		{"bad driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"empty db path", func(c *Config) { c.Storage.DatabasePath = "" }},
		{"half credentials", func(c *Config) { c.Export.S3.AccessKeyID = "AKIA" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestToggleTheme(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ToggleTheme(); got != ThemeLight {
		t.Errorf("expected light after toggle, got %s", got)
	}
	if got := cfg.ToggleTheme(); got != ThemeDark {
		t.Errorf("expected dark after second toggle, got %s", got)
	}
}

func TestDir_PrefersWorkspace(t *testing.T) {
	ws := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := Dir(ws); got != filepath.Join(home, DirName) {
		t.Errorf("expected home dir fallback, got %s", got)
	}

	local := filepath.Join(ws, DirName)
	if err := os.MkdirAll(local, 0755); err != nil {
		t.Fatal(err)
	}
	if got := Dir(ws); got != local {
		t.Errorf("expected workspace dir %s, got %s", local, got)
	}
	if got := DefaultPath(ws); got != filepath.Join(local, FileName) {
		t.Errorf("unexpected default path %s", got)
	}
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.db")
	tests := []struct{ in, want string }{
		{"calc.db", filepath.Join("/cfg", "calc.db")},
		{abs, abs},
		{":memory:", ":memory:"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolvePath("/cfg", tt.in); got != tt.want {
			t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	if c.IsCategoryEnabled("engine") {
		t.Error("categories must be off outside debug mode")
	}
	c.DebugMode = true
	if !c.IsCategoryEnabled("engine") {
		t.Error("unlisted categories default to enabled")
	}
	c.Categories = map[string]bool{"engine": false}
	if c.IsCategoryEnabled("engine") {
		t.Error("explicitly disabled category reported enabled")
	}
	opts := c.Options()
	if !opts.DebugMode || opts.Categories["engine"] {
		t.Errorf("Options did not carry settings: %+v", opts)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CALCNERD_THEME", "CALCNERD_DB", "CALCNERD_HISTORY_LIMIT", "CALCNERD_S3_BUCKET"} {
		t.Setenv(key, "")
	}
}
