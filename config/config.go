// Package config loads collapse settings from a YAML file with environment
// overrides.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/fwojciec/collapse"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "collapse.yml"

// EnvPrefix prefixes environment overrides: COLLAPSE_HOVER_DELAY sets
// hover_delay.
const EnvPrefix = "COLLAPSE_"

// Config corresponds to collapse.yml.
type Config struct {
	CollapseAllowed       bool          `koanf:"collapse_allowed"`
	HoverDelay            time.Duration `koanf:"hover_delay"`
	TransitionSuppression time.Duration `koanf:"transition_suppression"`
	PrefetchDelay         time.Duration `koanf:"prefetch_delay"`
	PopFrameSelector      string        `koanf:"popframe_selector"`
	AriaLabel             string        `koanf:"aria_label"`
	AllowQueryString      bool          `koanf:"prefetch_allow_query_string"`
	PrefetchWhitelist     bool          `koanf:"prefetch_whitelist"`
	Concurrency           int           `koanf:"concurrency"`
	RateLimit             float64       `koanf:"rate_limit"`
	LogLevel              string        `koanf:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	opts := collapse.DefaultOptions()
	return &Config{
		CollapseAllowed:       opts.CollapseAllowed,
		HoverDelay:            opts.HoverDelay,
		TransitionSuppression: opts.TransitionSuppression,
		PrefetchDelay:         opts.PrefetchDelay,
		PopFrameSelector:      opts.PopFrameSelector,
		AriaLabel:             opts.AriaLabel,
		Concurrency:           4,
		RateLimit:             2,
		LogLevel:              "info",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (COLLAPSE_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, collapse.Errorf(collapse.EINVALID, "reading config %s: %v", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, collapse.Errorf(collapse.EINTERNAL, "accessing config %s: %v", path, err)
	}

	// COLLAPSE_PREFETCH_WHITELIST -> prefetch_whitelist, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, collapse.Errorf(collapse.EINTERNAL, "loading env overrides: %v", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "unmarshalling config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	opts := c.Options()
	if err := opts.Validate(); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return collapse.Errorf(collapse.EINVALID, "concurrency must be at least 1")
	}
	if c.RateLimit < 0 {
		return collapse.Errorf(collapse.EINVALID, "rate_limit must not be negative")
	}
	if !validLogLevels[c.LogLevel] {
		return collapse.Errorf(collapse.EINVALID, "invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// Options returns the page options described by c.
func (c *Config) Options() collapse.Options {
	return collapse.Options{
		CollapseAllowed:       c.CollapseAllowed,
		HoverDelay:            c.HoverDelay,
		TransitionSuppression: c.TransitionSuppression,
		PrefetchDelay:         c.PrefetchDelay,
		PopFrameSelector:      c.PopFrameSelector,
		AriaLabel:             c.AriaLabel,
		AllowQueryString:      c.AllowQueryString,
		PrefetchWhitelist:     c.PrefetchWhitelist,
	}
}
