// Package config loads project settings and the capability credential.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied by WithDefaults.
const (
	DefaultModel        = "claude-opus-4-6"
	DefaultMaxTokens    = 4096
	DefaultTimeout      = 2 * time.Minute
	DefaultConcurrency  = 4
	DefaultContextLines = 20
	DefaultMaxFileBytes = 2 << 20
)

// FileNames lists the project config files Load looks for, in order.
var FileNames = []string{"n0conflict.yml", "n0conflict.yaml", "n0conflict.toml"}

// ProjectConfig holds project-level settings loaded from n0conflict.yml
// or n0conflict.toml.
type ProjectConfig struct {
	Model        string   `yaml:"model,omitempty" toml:"model"`
	MaxTokens    int      `yaml:"maxTokens,omitempty" toml:"maxTokens"`
	BaseURL      string   `yaml:"baseURL,omitempty" toml:"baseURL"`
	Timeout      string   `yaml:"timeout,omitempty" toml:"timeout"`
	Concurrency  int      `yaml:"concurrency,omitempty" toml:"concurrency"`
	ContextLines int      `yaml:"contextLines,omitempty" toml:"contextLines"`
	ExcludeDirs  []string `yaml:"excludeDirs,omitempty" toml:"excludeDirs"`
	MaxFileBytes int64    `yaml:"maxFileBytes,omitempty" toml:"maxFileBytes"`

	// Source is the file the config was read from, empty when none exists.
	Source string `yaml:"-" toml:"-"`

	timeout time.Duration
}

// ConfigError reports an invalid or missing setting.
type ConfigError struct {
	// Path is the config file involved, if any.
	Path  string
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Path != "" && e.Field != "":
		return fmt.Sprintf("config %s: %s: %s", e.Path, e.Field, msg)
	case e.Path != "":
		return fmt.Sprintf("config %s: %s", e.Path, msg)
	case e.Field != "":
		return fmt.Sprintf("config: %s: %s", e.Field, msg)
	default:
		return "config: " + msg
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads the first config file present in dir. It returns a zero-value
// config (not an error) if none exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &ConfigError{Path: path, Msg: "read", Err: err}
		}

		var cfg ProjectConfig
		if filepath.Ext(name) == ".toml" {
			err = toml.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return nil, &ConfigError{Path: path, Msg: "parse", Err: err}
		}
		cfg.Source = path
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

func (c *ProjectConfig) validate() error {
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return &ConfigError{Path: c.Source, Field: "timeout", Msg: "invalid duration", Err: err}
		}
		if d <= 0 {
			return &ConfigError{Path: c.Source, Field: "timeout", Msg: "must be positive"}
		}
		c.timeout = d
	}
	for field, v := range map[string]int64{
		"maxTokens":    int64(c.MaxTokens),
		"concurrency":  int64(c.Concurrency),
		"contextLines": int64(c.ContextLines),
		"maxFileBytes": c.MaxFileBytes,
	} {
		if v < 0 {
			return &ConfigError{Path: c.Source, Field: field, Msg: "must not be negative"}
		}
	}
	return nil
}

// TimeoutDuration returns the per-call timeout, zero when unset.
func (c *ProjectConfig) TimeoutDuration() time.Duration { return c.timeout }

// WithDefaults returns a copy with every unset field filled in.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
		c.Timeout = DefaultTimeout.String()
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.ContextLines == 0 {
		c.ContextLines = DefaultContextLines
	}
	if c.MaxFileBytes == 0 {
		c.MaxFileBytes = DefaultMaxFileBytes
	}
	return c
}
