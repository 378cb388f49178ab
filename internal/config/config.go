// Package config loads the reviewer configuration from defaults, an optional
// YAML file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"codereview/internal/logger"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is looked up in the working directory when no path is given.
	DefaultConfigPath = ".codereview.yml"

	DefaultProvider = "gemini"
	DefaultModel    = "gemini-2.5-flash"
	DefaultMaxSteps = 10
)

const (
	EnvProvider = "CODEREVIEW_PROVIDER"
	EnvModel    = "CODEREVIEW_MODEL"
	EnvMaxSteps = "CODEREVIEW_MAX_STEPS"
)

// ParseError indicates a configuration file exists but contains invalid content.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid config at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Config struct {
	// Provider is one of gemini, anthropic, openai.
	Provider string `yaml:"provider"`
	// Model is the provider's API model name. Empty picks the provider default.
	Model string `yaml:"model"`
	// MaxSteps caps model turns per review.
	MaxSteps int `yaml:"max_steps"`
	// Exclude lists repository-relative paths skipped by exact match.
	Exclude []string `yaml:"exclude"`
	// IncludeUntracked adds files git does not track yet.
	IncludeUntracked bool             `yaml:"include_untracked"`
	History          HistoryConfig    `yaml:"history"`
	Log              logger.LogConfig `yaml:"log"`
}

// HistoryConfig controls the local record of review runs.
type HistoryConfig struct {
	// Enabled defaults to true when nil.
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

func (h HistoryConfig) IsEnabled() bool {
	if h.Enabled == nil {
		return true
	}
	return *h.Enabled
}

func Default() *Config {
	return &Config{
		Provider: DefaultProvider,
		Model:    DefaultModel,
		MaxSteps: DefaultMaxSteps,
		Exclude:  []string{"dist", "bun.lock"},
		Log:      logger.LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads path (or DefaultConfigPath when empty) on top of the defaults and
// applies environment overrides. A missing file is not an error unless path
// was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, cfg); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values the document does not set.
func Parse(data []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	providerBefore := cfg.Provider
	modelBefore := cfg.Model
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.Provider != providerBefore && cfg.Model == modelBefore {
		cfg.Model = ""
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvProvider); ok && strings.TrimSpace(v) != "" {
		provider := strings.TrimSpace(v)
		if provider != c.Provider {
			c.Provider = provider
			c.Model = ""
		}
	}
	if v, ok := lookup(EnvModel); ok && strings.TrimSpace(v) != "" {
		c.Model = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvMaxSteps); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxSteps, err)
		}
		c.MaxSteps = n
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}
