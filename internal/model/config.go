package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StoreConfig holds settings for the local database.
type StoreConfig struct {
	// Path is the SQLite database file, or ":memory:".
	Path string `mapstructure:"path" yaml:"path"`

	// BusyTimeout bounds how long SQLite waits on a locked database.
	BusyTimeout time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout"`

	// MaxReadConns caps concurrent read connections for file databases.
	MaxReadConns int `mapstructure:"max_read_conns" yaml:"max_read_conns"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DisplayConfig holds terminal rendering preferences used before a user
// is known.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	// OperationTimeout is the deadline applied to every store operation.
	OperationTimeout time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
}

const envPrefix = "TRACKER"

// configDir returns ~/.config/tracker, or the working directory when the
// home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tracker")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tracker/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Path:         filepath.Join(configDir(), "tracker.db"),
			BusyTimeout:  5 * time.Second,
			MaxReadConns: 4,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Display: DisplayConfig{
			Theme: string(ThemeLight),
		},
		OperationTimeout: 10 * time.Second,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TRACKER_ override file values
// (TRACKER_STORE_PATH -> store.path). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults double as the key registry AutomaticEnv needs for Unmarshal.
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.busy_timeout", def.Store.BusyTimeout)
	v.SetDefault("store.max_read_conns", def.Store.MaxReadConns)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("operation_timeout", def.OperationTimeout)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the store cannot work with.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must not be empty")
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("store.busy_timeout must not be negative, got %s", c.Store.BusyTimeout)
	}
	if c.Store.MaxReadConns < 1 {
		return fmt.Errorf("store.max_read_conns must be at least 1, got %d", c.Store.MaxReadConns)
	}
	if c.OperationTimeout < 0 {
		return fmt.Errorf("operation_timeout must not be negative, got %s", c.OperationTimeout)
	}
	if !Theme(c.Display.Theme).Valid() {
		return fmt.Errorf("display.theme must be %q or %q, got %q", ThemeLight, ThemeDark, c.Display.Theme)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store.path", cfg.Store.Path)
	v.Set("store.busy_timeout", cfg.Store.BusyTimeout.String())
	v.Set("store.max_read_conns", cfg.Store.MaxReadConns)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("display.theme", cfg.Display.Theme)
	v.Set("operation_timeout", cfg.OperationTimeout.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
