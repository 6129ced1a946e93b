// Package config loads finder settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/appfinder/internal/types"
)

// EnvPrefix prefixes every environment override, e.g. APPFINDER_MAX_RESULTS.
const EnvPrefix = "APPFINDER"

// Config represents the finder configuration.
type Config struct {
	MaxResults            int                `yaml:"max_results" envconfig:"MAX_RESULTS"`                         // Results returned per search
	RecursionThreshold    int                `yaml:"recursion_threshold" envconfig:"RECURSION_THRESHOLD"`         // Recurse only below this many matches
	MaxSubdirs            int                `yaml:"max_subdirs" envconfig:"MAX_SUBDIRS"`                         // Subdirectories visited per level
	MaxConcurrentSearches int                `yaml:"max_concurrent_searches" envconfig:"MAX_CONCURRENT_SEARCHES"` // Searches walking the disk at once
	SearchTimeout         time.Duration      `yaml:"search_timeout" envconfig:"SEARCH_TIMEOUT"`                   // Budget for one search
	CacheTTL              time.Duration      `yaml:"cache_ttl" envconfig:"CACHE_TTL"`                             // Result lifetime
	CacheSweepInterval    time.Duration      `yaml:"cache_sweep_interval" envconfig:"CACHE_SWEEP_INTERVAL"`       // Expired entry sweep period
	IgnoredPatterns       []string           `yaml:"ignored_patterns" envconfig:"IGNORED_PATTERNS"`               // Extra directory globs to skip
	ExtraRoots            []types.RootConfig `yaml:"extra_roots" ignored:"true"`                                  // Additional search roots
	LogLevel              string             `yaml:"log_level" envconfig:"LOG_LEVEL"`                             // debug, info, warn, error
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MaxResults:            50,
		RecursionThreshold:    20,
		MaxSubdirs:            5,
		MaxConcurrentSearches: 3,
		SearchTimeout:         30 * time.Second,
		CacheTTL:              5 * time.Minute,
		CacheSweepInterval:    time.Minute,
		LogLevel:              "info",
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "appfinder", "config.yaml")
}

// Load reads the configuration from path, or from DefaultPath when path is
// empty. A missing file yields the defaults. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.MaxResults <= 0 {
		return errors.New("max_results must be > 0")
	}
	if c.RecursionThreshold <= 0 {
		return errors.New("recursion_threshold must be > 0")
	}
	if c.MaxSubdirs <= 0 {
		return errors.New("max_subdirs must be > 0")
	}
	if c.MaxConcurrentSearches <= 0 {
		return errors.New("max_concurrent_searches must be > 0")
	}
	if c.SearchTimeout <= 0 {
		return errors.New("search_timeout must be > 0")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache_ttl must be > 0")
	}
	if c.CacheSweepInterval <= 0 {
		return errors.New("cache_sweep_interval must be > 0")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	for i, root := range c.ExtraRoots {
		if strings.TrimSpace(root.Path) == "" {
			return fmt.Errorf("extra_roots[%d].path must not be empty", i)
		}
		if _, err := types.ParseGroup(root.Group); err != nil {
			return fmt.Errorf("extra_roots[%d]: %w", i, err)
		}
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// PathFilter returns the path filter settings.
func (c *Config) PathFilter() *types.PathFilterConfig {
	return &types.PathFilterConfig{IgnoredPatterns: c.IgnoredPatterns}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn, or error (got: %s)", s)
	}
}
