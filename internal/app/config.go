package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/plugreg/internal/discovery"
	"github.com/vk/plugreg/internal/source"
	"github.com/vk/plugreg/internal/tracing"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SearchPath        []string       `mapstructure:"path"`
	Locator           string         `mapstructure:"locator"`
	DiscoveryDisabled bool           `mapstructure:"no_discovery"`
	LogFormat         string         `mapstructure:"log_format"`
	LogLevel          string         `mapstructure:"log_level"`
	ListenAddr        string         `mapstructure:"listen"`
	Tracing           tracing.Config `mapstructure:"tracing"`

	level slog.Level
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		SearchPath: source.DefaultSearchPath(),
		Locator:    source.DefaultLocator,
		LogFormat:  "text",
		LogLevel:   "info",
		ListenAddr: ":8080",
		Tracing:    tracing.DefaultConfig(),
	}
}

// NewConfig normalizes and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.Locator = strings.TrimSpace(cfg.Locator)
	if cfg.Locator == "" {
		return nil, errors.New("locator is a required configuration field and cannot be empty")
	}
	if len(cfg.SearchPath) == 0 && !cfg.DiscoveryDisabled {
		cfg.SearchPath = source.DefaultSearchPath()
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	cfg.level = level

	if err := cfg.Tracing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracing configuration: %w", err)
	}
	return &cfg, nil
}

// Discovery returns the discovery engine settings.
func (c *Config) Discovery() discovery.Config {
	return discovery.Config{
		Locator:           c.Locator,
		SearchPath:        c.SearchPath,
		DiscoveryDisabled: c.DiscoveryDisabled,
	}
}

// NewLogger builds an isolated logger for the normalized log settings. It
// does not touch the global slog logger.
func (c *Config) NewLogger(outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
