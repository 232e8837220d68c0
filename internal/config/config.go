// Package config manages the persisted API configuration for xa.
// The configuration lives in a single YAML document under the user's
// config directory and is loaded once per invocation.
package config

import (
	"fmt"
	"os"

	"github.com/execanything/xa/internal/core"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Config holds the API settings for talking to an OpenAI-compatible endpoint.
type Config struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	DefaultModel string `yaml:"default_model,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		APIKey:       "",
		DefaultModel: DefaultModel,
	}
}

// Model returns the configured model, falling back to the default.
func (c *Config) Model() string {
	if c.DefaultModel == "" {
		return DefaultModel
	}
	return c.DefaultModel
}

// Configured reports whether an API key has been set up.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}

// Load reads the configuration file. A missing file yields defaults. A
// corrupted file is renamed to a .backup suffix and replaced with defaults;
// the recovery is reported on stderr but never fails the invocation.
func Load() (*Config, error) {
	path := core.ConfigFile()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		backupPath := path + ".backup"
		if renameErr := os.Rename(path, backupPath); renameErr != nil {
			return nil, fmt.Errorf("failed to back up corrupted config file: %w", renameErr)
		}
		fmt.Fprintf(os.Stderr, "Warning: corrupted config file detected. Backed up to %s and reset to defaults.\n", backupPath)

		cfg = Default()
		if saveErr := cfg.Save(); saveErr != nil {
			return nil, saveErr
		}
		return cfg, nil
	}

	// Reconcile absent keys against defaults so callers never see empty
	// endpoint or model values.
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	content, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(core.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(core.ConfigFile(), content, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
