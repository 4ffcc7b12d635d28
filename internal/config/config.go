package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config is the root configuration for todo.
type Config struct {
	Backend  string `yaml:"backend"`             // memory, json or sqlite
	File     string `yaml:"file,omitempty"`      // JSON task file (json backend)
	Database string `yaml:"database,omitempty"`  // SQLite database (sqlite backend)
	AutoSave *bool  `yaml:"auto_save,omitempty"` // write after every mutation (json backend)
	LogLevel string `yaml:"log_level,omitempty"` // debug, info, warn, error
}

// DataPath returns the root directory for todo data.
// It uses $TODO_PATH if set, otherwise defaults to ~/.todo.
func DataPath() string {
	if v := os.Getenv("TODO_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todo")
	}
	return filepath.Join(home, ".todo")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataPath(), "config.yaml")
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML config at path, applies environment overrides and
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with TODO_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TODO_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = BackendJSON
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	if cfg.File == "" {
		cfg.File = filepath.Join(DataPath(), "tasks.json")
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(DataPath(), "tasks.db")
	}
	if cfg.AutoSave == nil {
		enabled := true
		cfg.AutoSave = &enabled
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
}

// Validate rejects unknown backends and log levels.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want memory, json or sqlite)", c.Backend)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// AutoSaveEnabled reports whether mutations are written immediately.
func (c *Config) AutoSaveEnabled() bool {
	return c.AutoSave == nil || *c.AutoSave
}

// Level returns the configured slog level, falling back to warn.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
