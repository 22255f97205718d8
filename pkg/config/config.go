// Package config handles workspace configuration for webelement.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by WithDefaults.
const (
	DefaultSeleniumURL = "http://localhost:4444/wd/hub"
	DefaultBrowser     = "chrome"
	DefaultTimeoutMs   = 10000
	DefaultIntervalMs  = 500
)

// Config represents the workspace configuration (config.yaml).
type Config struct {
	// Flow selection
	Flows       []string `yaml:"flows"` // Glob patterns for flow files
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`

	// Variables visible to ${...} expressions in every flow
	Env map[string]string `yaml:"env"`

	// Session settings
	SeleniumURL    string                 `yaml:"seleniumURL"`
	Browser        string                 `yaml:"browser"`
	Headless       bool                   `yaml:"headless"`
	ImplicitWaitMs int                    `yaml:"implicitWaitMs"`
	Capabilities   map[string]interface{} `yaml:"capabilities"`

	// Element wait settings
	TimeoutMs  int `yaml:"timeoutMs"`
	IntervalMs int `yaml:"intervalMs"`

	// Logging
	LogFile string `yaml:"logFile"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// Validate rejects negative durations.
func (c *Config) Validate() error {
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeoutMs must not be negative: %d", c.TimeoutMs)
	}
	if c.IntervalMs < 0 {
		return fmt.Errorf("intervalMs must not be negative: %d", c.IntervalMs)
	}
	if c.ImplicitWaitMs < 0 {
		return fmt.Errorf("implicitWaitMs must not be negative: %d", c.ImplicitWaitMs)
	}
	return nil
}

// WithDefaults returns a copy with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.SeleniumURL == "" {
		c.SeleniumURL = DefaultSeleniumURL
	}
	if c.Browser == "" {
		c.Browser = DefaultBrowser
	}
	if c.TimeoutMs == 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	if c.IntervalMs == 0 {
		c.IntervalMs = DefaultIntervalMs
	}
	return c
}

// Timeout is the element wait timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Interval is the element wait polling interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// ImplicitWait is the driver-side implicit wait, zero when disabled.
func (c *Config) ImplicitWait() time.Duration {
	return time.Duration(c.ImplicitWaitMs) * time.Millisecond
}
