package tablesplit

import (
	"errors"
	"os"
	"strconv"
	"sync"
)

// Config contains the options shared by the splitter and the pipeline
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `koanf:"log_level"`
	// MaxAttempts is how many times the classifier is asked before giving up
	MaxAttempts int `koanf:"max_attempts"`
	// Indent is used when serializing sub-tables; empty means compact XML
	Indent string `koanf:"indent"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		MaxAttempts: 3,
		Indent:      DefaultIndent,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// TABLESPLIT_LOG_LEVEL
	if val := os.Getenv("TABLESPLIT_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// TABLESPLIT_MAX_ATTEMPTS
	if val := os.Getenv("TABLESPLIT_MAX_ATTEMPTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.MaxAttempts = n
		}
	}

	// TABLESPLIT_INDENT
	if val, ok := os.LookupEnv("TABLESPLIT_INDENT"); ok {
		config.Indent = val
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields.
// Indent is taken as given since an empty indent is meaningful.
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.MaxAttempts == 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxAttempts <= 0 {
		return errors.New("max attempts must be positive")
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Outside the lock, UpdateLoggerFromConfig reads the config again
	UpdateLoggerFromConfig()
}
