// Package config holds the spl2cql configuration: completion-service
// settings, batch runner limits and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all spl2cql configuration.
type Config struct {
	// Translator configures the completion service used for
	// translations.
	Translator TranslatorConfig `yaml:"translator"`

	// Runner configures batch execution.
	Runner RunnerConfig `yaml:"runner"`

	// Logging configures the zap logger.
	Logging LoggingConfig `yaml:"logging"`
}

// TranslatorConfig configures the completion boundary.
type TranslatorConfig struct {
	Provider    string  `yaml:"provider"` // anthropic
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

// RunnerConfig configures batch translation.
type RunnerConfig struct {
	// Concurrency bounds parallel completion calls within one batch.
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration. Temperature 0.1 and
// the 2048-token ceiling are tuned for consistent single-query
// completions.
func DefaultConfig() *Config {
	return &Config{
		Translator: TranslatorConfig{
			Provider:    "anthropic",
			Model:       "claude-sonnet-4-20250514",
			BaseURL:     "https://api.anthropic.com/v1",
			MaxTokens:   2048,
			Temperature: 0.1,
			Timeout:     "120s",
		},
		Runner: RunnerConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist. Environment variables override file
// values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// applyEnvOverrides applies environment variable overrides. The API key
// is resolved once here; its absence surfaces as an auth failure on the
// first completion call, not at startup.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Translator.APIKey = key
	}
	if model := os.Getenv("SPL2CQL_MODEL"); model != "" {
		c.Translator.Model = model
	}
	if url := os.Getenv("SPL2CQL_BASE_URL"); url != "" {
		c.Translator.BaseURL = url
	}
}

// GetTimeout returns the completion timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Translator.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Translator.Provider != "anthropic" {
		return fmt.Errorf("invalid provider: %s (valid: anthropic)", c.Translator.Provider)
	}
	if c.Translator.Model == "" {
		return fmt.Errorf("model not configured")
	}
	if c.Runner.Concurrency < 1 {
		return fmt.Errorf("runner concurrency must be at least 1, got %d", c.Runner.Concurrency)
	}
	return nil
}
