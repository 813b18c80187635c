// Package config loads blockscan settings from defaults, an optional YAML
// file and BLOCKSCAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. BLOCKSCAN_LOG_LEVEL.
	EnvPrefix = "BLOCKSCAN"
	// DefaultFile is looked up in the working directory when no file is given.
	DefaultFile = ".blockscan.yaml"
)

// Config holds every setting a command may read.
// Command-line flags take precedence over these values.
type Config struct {
	Format   string `mapstructure:"format" yaml:"format"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose"`
	Jobs     int    `mapstructure:"jobs" yaml:"jobs"`
	DB       string `mapstructure:"db" yaml:"db"`
	Diagram  string `mapstructure:"diagram" yaml:"diagram"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:   "text",
		LogLevel: "warn",
		Jobs:     runtime.GOMAXPROCS(0),
	}
}

// Load resolves the configuration.
//
// If path is non-empty the file must exist. Otherwise DefaultFile is read
// when present, and defaults are used when it is not.
func Load(path string) (Config, string, error) {
	defaults := Default()

	v := viper.New()
	v.SetDefault("format", defaults.Format)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("db", defaults.DB)
	v.SetDefault("diagram", defaults.Diagram)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved := ""
	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return Config{}, "", fmt.Errorf("config file not found: %s", path)
		}
		resolved = path
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			resolved = DefaultFile
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, "", fmt.Errorf("stat %s: %w", DefaultFile, err)
		}
	}

	if resolved != "" {
		v.SetConfigFile(resolved)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid config %s: %w", displayPath(resolved), err)
	}
	return cfg, resolved, nil
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", c.Format)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

func displayPath(p string) string {
	if p == "" {
		return "(defaults)"
	}
	return p
}
