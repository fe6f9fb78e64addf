// Package config loads episum settings from a YAML file, the environment and
// command-line overrides, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "episum.yaml"

// DefaultOutput is the summary file name the simulator tooling expects.
const DefaultOutput = "EpiHiperLogSummary.json"

// Environment overrides.
const (
	EnvOutput    = "EPISUM_OUTPUT"
	EnvLogLevel  = "EPISUM_LOG_LEVEL"
	EnvLogFormat = "EPISUM_LOG_FORMAT"
)

// Config holds all episum configuration.
type Config struct {
	// Output is the summary document path; "-" writes to stdout.
	Output string `yaml:"output"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the run logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// ValidLevels and ValidFormats list the accepted logging values.
var (
	ValidLevels  = []string{"debug", "info", "warn", "error"}
	ValidFormats = []string{"console", "json"}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: DefaultOutput,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path is empty")
	}
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if !contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %q (valid: %v)", c.Logging.Format, ValidFormats)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
