// Package config manages annotate configuration and the .annotate directory structure.
// It handles loading, saving, and initializing the workspace configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/pelletier/go-toml/v2"
)

const (
	WorkspaceDir = ".annotate"
	ConfigFile   = "config"
	DatabaseFile = "annotate.db"
)

// Config represents the workspace configuration
type Config struct {
	DefaultFormat models.Format `toml:"default_format"`
	LogLevel      string        `toml:"log_level"`  // debug, info, warn, error
	LogFormat     string        `toml:"log_format"` // text, json
	path          string        // path to .annotate directory
}

// FindRoot finds the .annotate directory by walking up from dir
func FindRoot(dir string) (string, error) {
	for {
		wsPath := filepath.Join(dir, WorkspaceDir)
		if info, err := os.Stat(wsPath); err == nil && info.IsDir() {
			return wsPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not an annotate workspace (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration of the workspace containing the current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFrom(cwd)
}

// LoadFrom loads the configuration of the workspace containing dir
func LoadFrom(dir string) (*Config, error) {
	wsPath, err := FindRoot(dir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(wsPath, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := models.ParseFormat(string(cfg.DefaultFormat)); err != nil {
		return nil, fmt.Errorf("invalid default_format: %w", err)
	}

	cfg.path = wsPath
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// Path returns the path to the .annotate directory
func (c *Config) Path() string {
	return c.path
}

// DatabasePath returns the path to the bbolt database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// Format returns the parsed default format
func (c *Config) Format() models.Format {
	f, err := models.ParseFormat(string(c.DefaultFormat))
	if err != nil {
		return models.FormatDetection
	}
	return f
}

// Initialize creates a new .annotate directory under dir with initial configuration
func Initialize(dir string, format models.Format) (*Config, error) {
	wsPath := filepath.Join(dir, WorkspaceDir)

	if _, err := os.Stat(wsPath); err == nil {
		return nil, fmt.Errorf("annotate workspace already exists")
	}

	if err := os.MkdirAll(wsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", WorkspaceDir, err)
	}

	cfg := defaults()
	cfg.DefaultFormat = format
	cfg.path = wsPath

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(wsPath)
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DefaultFormat: models.FormatDetection,
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

// NewLogger builds a slog logger writing to w from a level and format name.
// Unknown levels fall back to info and unknown formats to text.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
