package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirName is the per-workspace (or per-user) directory holding config,
// database and logs.
const DirName = ".calcnerd"

// FileName is the config file inside DirName.
const FileName = "config.yaml"

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Storage drivers. These match the database/sql driver names registered by
// modernc.org/sqlite and github.com/mattn/go-sqlite3.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all calcnerd configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	UI      UIConfig      `yaml:"ui"`
	History HistoryConfig `yaml:"history"`
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme string `yaml:"theme"` // light, dark
}

// HistoryConfig configures the history list.
type HistoryConfig struct {
	Limit int `yaml:"limit"` // entries kept, oldest evicted first
}

// StorageConfig configures persistence.
type StorageConfig struct {
	Driver       string `yaml:"driver"`        // sqlite (pure Go), sqlite3 (cgo)
	DatabasePath string `yaml:"database_path"` // relative paths resolve against the config dir
}

// ExportConfig configures history export.
type ExportConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

// S3Config configures the S3 export sink. Empty credentials fall back to
// the AWS default chain.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// MetricsConfig configures the Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "calcnerd",
		Version: "1.0.0",

		UI: UIConfig{
			Theme: ThemeDark,
		},

		History: HistoryConfig{
			Limit: 50,
		},

		Storage: StorageConfig{
			Driver:       DriverSQLite,
			DatabasePath: "calcnerd.db",
		},

		Export: ExportConfig{
			Dir: ".",
			S3: S3Config{
				Region: "us-east-1",
			},
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Dir returns the config directory for workspace: workspace/.calcnerd when
// it exists, otherwise ~/.calcnerd. If the home directory cannot be
// determined the workspace directory is used.
func Dir(workspace string) string {
	local := filepath.Join(workspace, DirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return local
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the config file path for workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(Dir(workspace), FileName)
}

// ResolvePath makes p absolute relative to dir. Absolute paths and the
// sqlite ":memory:" name are returned unchanged.
func ResolvePath(dir, p string) string {
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. Unparseable
// values are ignored.
func (c *Config) applyEnvOverrides() {
	if theme := os.Getenv("CALCNERD_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
	if path := os.Getenv("CALCNERD_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if raw := os.Getenv("CALCNERD_HISTORY_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			c.History.Limit = n
		}
	}
	if bucket := os.Getenv("CALCNERD_S3_BUCKET"); bucket != "" {
		c.Export.S3.Bucket = bucket
	}
}

// ValidThemes lists the supported UI themes.
var ValidThemes = []string{ThemeLight, ThemeDark}

// ValidDrivers lists the supported storage drivers.
var ValidDrivers = []string{DriverSQLite, DriverSQLite3}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("%w: ui.theme %q (valid: %v)", ErrInvalid, c.UI.Theme, ValidThemes)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("%w: history.limit must be positive, got %d", ErrInvalid, c.History.Limit)
	}
	if !contains(ValidDrivers, c.Storage.Driver) {
		return fmt.Errorf("%w: storage.driver %q (valid: %v)", ErrInvalid, c.Storage.Driver, ValidDrivers)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("%w: storage.database_path is empty", ErrInvalid)
	}
	if (c.Export.S3.AccessKeyID == "") != (c.Export.S3.SecretAccessKey == "") {
		return fmt.Errorf("%w: export.s3 needs both access_key_id and secret_access_key", ErrInvalid)
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (c *Config) ToggleTheme() string {
	if c.UI.Theme == ThemeLight {
		c.UI.Theme = ThemeDark
	} else {
		c.UI.Theme = ThemeLight
	}
	return c.UI.Theme
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
