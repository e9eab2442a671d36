// Package config provides configuration management for prevhs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hesreallyhim/pre-vhs/pkg/engine"
)

// BuiltinPacks are the pack names Packs may reference.
var BuiltinPacks = []string{"typing", "emoji", "spacing", "probe"}

// Config holds the prevhs configuration.
type Config struct {
	Packs             []string `yaml:"packs,omitempty"`
	LuaPacks          []string `yaml:"lua_packs,omitempty"`
	MaxExpansionSteps int      `yaml:"max_expansion_steps,omitempty"`
	MaxExpansionDepth int      `yaml:"max_expansion_depth,omitempty"`
	HeaderValidation  string   `yaml:"header_validation,omitempty"`
	QuietCollisions   bool     `yaml:"quiet_collisions,omitempty"`
}

// Validate checks ranges and enumerations. Zero values are valid: the
// engine applies its own defaults.
func (c *Config) Validate() error {
	switch c.HeaderValidation {
	case "", string(engine.ValidationOff), string(engine.ValidationWarn), string(engine.ValidationError):
	default:
		return fmt.Errorf("header_validation must be off, warn, or error (got %q)", c.HeaderValidation)
	}
	if c.MaxExpansionSteps < 0 {
		return fmt.Errorf("max_expansion_steps must not be negative")
	}
	if c.MaxExpansionDepth < 0 {
		return fmt.Errorf("max_expansion_depth must not be negative")
	}
	known := make(map[string]bool, len(BuiltinPacks))
	for _, name := range BuiltinPacks {
		known[name] = true
	}
	for _, name := range c.Packs {
		if !known[name] {
			return fmt.Errorf("unknown pack %q", name)
		}
	}
	return nil
}

// EngineOptions translates the configuration to engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		MaxExpansionSteps: c.MaxExpansionSteps,
		MaxExpansionDepth: c.MaxExpansionDepth,
		HeaderValidation:  engine.ValidationLevel(c.HeaderValidation),
		QuietCollisions:   c.QuietCollisions,
	}
}

// LoadFromEnv overrides configuration from environment variables when set.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("PREVHS_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxExpansionSteps = n
		}
	}
	if v := os.Getenv("PREVHS_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxExpansionDepth = n
		}
	}
	if v := os.Getenv("PREVHS_HEADER_VALIDATION"); v != "" {
		c.HeaderValidation = v
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "prevhs", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".prevhs", "config.yml")
	}

	return filepath.Join(home, ".config", "prevhs", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment
// variables. A missing file yields the zero configuration.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
