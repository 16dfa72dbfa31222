package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"recstrip/internal/strip"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".recstrip.yaml"

// Config holds all recstrip configuration.
type Config struct {
	// Target is the file rewritten when no path is given on the command line.
	Target string `yaml:"target"`

	// Flag selection
	Field  string   `yaml:"field"`
	Values []string `yaml:"values"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	rules := strip.DefaultRules()
	return &Config{
		Target: strip.DefaultTarget,
		Field:  rules.Field,
		Values: rules.Values,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file is not an error; defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if target := os.Getenv("RECSTRIP_TARGET"); target != "" {
		c.Target = target
	}
	if field := os.Getenv("RECSTRIP_FIELD"); field != "" {
		c.Field = field
	}
	if values := os.Getenv("RECSTRIP_VALUES"); values != "" {
		c.Values = splitList(values)
	}
	if level := os.Getenv("RECSTRIP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("target path not configured (set target in %s or RECSTRIP_TARGET)", DefaultPath)
	}
	if _, err := c.Stripper(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Rules returns the flag rules described by the configuration.
func (c *Config) Rules() strip.Rules {
	return strip.Rules{Field: c.Field, Values: c.Values}
}

// Stripper compiles the configured rules.
func (c *Config) Stripper() (*strip.Stripper, error) {
	s, err := strip.New(c.Rules())
	if err != nil {
		return nil, fmt.Errorf("invalid flag rules: %w", err)
	}
	return s, nil
}
