package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the complete eisen configuration
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Matrix     MatrixConfig     `mapstructure:"matrix" yaml:"matrix"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	TUI        TUIConfig        `mapstructure:"tui" yaml:"tui"`
	Export     ExportConfig     `mapstructure:"export" yaml:"export"`
}

// StorageConfig controls where and how state is persisted
type StorageConfig struct {
	// Backend selects the key-value store: "file", "sqlite" or "memory"
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Dir is the data directory. Empty means DataDir().
	// A leading ~ expands to the home directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// DebounceMs is the quiet period before a change is written (default: 300)
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	// WriteTimeoutMs bounds a single backend write, 0 = no bound
	WriteTimeoutMs int `mapstructure:"write_timeout_ms" yaml:"write_timeout_ms"`
}

// MatrixConfig tunes quadrant classification
type MatrixConfig struct {
	// UrgentWindowHours is how far ahead a due date counts as urgent (default: 48)
	UrgentWindowHours int `mapstructure:"urgent_window_hours" yaml:"urgent_window_hours"`
	// GraceMinutes is how long a task stays urgent after its due date (default: 5)
	GraceMinutes int `mapstructure:"grace_minutes" yaml:"grace_minutes"`
}

// CategoriesConfig controls the category list
type CategoriesConfig struct {
	// Defaults seeds the category list when nothing is stored yet
	Defaults []string `mapstructure:"defaults" yaml:"defaults"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled writes a JSON log to <data dir>/eisen.log
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum level logged: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme selects the color palette: "default" or "mono"
	Theme string `mapstructure:"theme" yaml:"theme"`
	// RefreshSeconds re-buckets the matrix periodically so urgency tracks
	// the clock (default: 30, 0 = only on change)
	RefreshSeconds int `mapstructure:"refresh_seconds" yaml:"refresh_seconds"`
	// ShowCompleted shows completed tasks in the quadrants (default: true)
	ShowCompleted bool `mapstructure:"show_completed" yaml:"show_completed"`
}

// ExportConfig controls report generation
type ExportConfig struct {
	// PageSize for PDF reports: "A4" or "Letter"
	PageSize string `mapstructure:"page_size" yaml:"page_size"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        "file",
			Dir:            "", // Empty means use DataDir()
			DebounceMs:     300,
			WriteTimeoutMs: 2000,
		},
		Matrix: MatrixConfig{
			UrgentWindowHours: 48,
			GraceMinutes:      5,
		},
		Categories: CategoriesConfig{
			Defaults: []string{"Work", "Personal Projects", "Freelance Jobs"},
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		TUI: TUIConfig{
			Theme:          "default",
			RefreshSeconds: 30,
			ShowCompleted:  true,
		},
		Export: ExportConfig{
			PageSize: "A4",
		},
	}
}

// Debounce returns the write debounce as a time.Duration
func (c *StorageConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// WriteTimeout returns the write timeout as a time.Duration (0 means no bound)
func (c *StorageConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMs) * time.Millisecond
}

// ResolveDir returns the data directory, expanding ~ and falling back to
// DataDir() when Dir is empty.
func (c *StorageConfig) ResolveDir() string {
	if c.Dir == "" {
		return DataDir()
	}
	path := c.Dir
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return path
}

// UrgentWindow returns the urgency window as a time.Duration
func (c *MatrixConfig) UrgentWindow() time.Duration {
	return time.Duration(c.UrgentWindowHours) * time.Hour
}

// Grace returns the grace period as a time.Duration
func (c *MatrixConfig) Grace() time.Duration {
	return time.Duration(c.GraceMinutes) * time.Minute
}

// RefreshInterval returns the TUI refresh interval (0 means disabled)
func (c *TUIConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Storage defaults
	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.dir", defaults.Storage.Dir)
	viper.SetDefault("storage.debounce_ms", defaults.Storage.DebounceMs)
	viper.SetDefault("storage.write_timeout_ms", defaults.Storage.WriteTimeoutMs)

	// Matrix defaults
	viper.SetDefault("matrix.urgent_window_hours", defaults.Matrix.UrgentWindowHours)
	viper.SetDefault("matrix.grace_minutes", defaults.Matrix.GraceMinutes)

	// Category defaults
	viper.SetDefault("categories.defaults", defaults.Categories.Defaults)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.refresh_seconds", defaults.TUI.RefreshSeconds)
	viper.SetDefault("tui.show_completed", defaults.TUI.ShowCompleted)

	// Export defaults
	viper.SetDefault("export.page_size", defaults.Export.PageSize)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "eisen")
	}
	// Fall back to ~/.config/eisen
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eisen"
	}
	return filepath.Join(home, ".config", "eisen")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default directory for persisted tasks and logs
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "eisen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eisen"
	}
	return filepath.Join(home, ".local", "share", "eisen")
}

// Marshal renders cfg as YAML in the config file layout
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes cfg to path as YAML, creating parent directories
func (c *Config) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	header := []byte("# eisen configuration\n# Environment overrides: EISEN_<SECTION>_<KEY>, e.g. EISEN_STORAGE_BACKEND\n\n")
	return os.WriteFile(path, append(header, data...), 0644)
}
