// Package config provides configuration management for the tablesplit CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit"
)

// Output formats accepted by --output
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputCSV      = "csv"
	OutputMarkdown = "markdown"
)

// DefaultOutput is used when no output format is configured
const DefaultOutput = OutputTable

// envPrefix is shared with the library's ConfigFromEnvironment
const envPrefix = "TABLESPLIT_"

// Config holds all CLI configuration options.
type Config struct {
	LogLevel    string `koanf:"log_level"`
	MaxAttempts int    `koanf:"max_attempts"`
	Indent      string `koanf:"indent"`
	Output      string `koanf:"output"`
	// Table is the 0-based index of the table to work on
	Table int `koanf:"table"`
}

// Library returns the options understood by the tablesplit package
func (c *Config) Library() *tablesplit.Config {
	return &tablesplit.Config{
		LogLevel:    c.LogLevel,
		MaxAttempts: c.MaxAttempts,
		Indent:      c.Indent,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Library().Validate(); err != nil {
		return err
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputCSV, OutputMarkdown, "md":
	default:
		return fmt.Errorf("invalid output format %q (expected table, json, csv or markdown)", c.Output)
	}
	if c.Table < 0 {
		return fmt.Errorf("table index must not be negative: %d", c.Table)
	}
	return nil
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > tablesplit.yaml > tablesplit.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"tablesplit.yaml", "tablesplit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Load defaults
	defaults := tablesplit.DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":    defaults.LogLevel,
		"max_attempts": defaults.MaxAttempts,
		"indent":       defaults.Indent,
		"output":       DefaultOutput,
		"table":        0,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: TABLESPLIT_MAX_ATTEMPTS -> max_attempts
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Output = strings.ToLower(cfg.Output)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the configuration loaded by the last LoadConfig call.
func GetCurrentConfig() *Config {
	return currentConfig
}

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	defaults := tablesplit.DefaultConfig()
	return &Config{
		LogLevel:    defaults.LogLevel,
		MaxAttempts: defaults.MaxAttempts,
		Indent:      defaults.Indent,
		Output:      DefaultOutput,
	}
}
