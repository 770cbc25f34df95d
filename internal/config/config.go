package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds process-wide options shared by all commands
type Config struct {
	// Version information
	Version   string
	BuildTime string
	GitCommit string

	// Output options
	NoColor   bool
	Debug     bool
	LogLevel  string
	LogFormat string // "text" or "json"

	// Defaults file consulted by "fio run" for parameters not given as flags
	DefaultsPath string
}

// New creates a Config populated from the environment
func New() *Config {
	return &Config{
		NoColor:      getEnvBool("NO_COLOR", false),
		Debug:        getEnvBool("VIRTPERF_DEBUG", false),
		LogLevel:     getEnvString("VIRTPERF_LOG_LEVEL", "info"),
		LogFormat:    getEnvString("VIRTPERF_LOG_FORMAT", "text"),
		DefaultsPath: getEnvString("VIRTPERF_DEFAULTS", DefaultsFileName),
	}
}

// Validate checks the output options
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// EffectiveLogLevel returns "debug" when --debug is set, LogLevel otherwise
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// Helper functions
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
