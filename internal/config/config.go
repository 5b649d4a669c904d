// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

// Config is the top-level linkmesh configuration. The core packages hold no
// process-wide mutable state; an explicit Config (or a piece of it) is
// passed into every constructor that needs one.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	Server    ServerConfig    `mapstructure:"server"`
	Anonymize AnonymizeConfig `mapstructure:"anonymize"`
}

// StorageConfig selects where the graph database lives.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// CrawlConfig tunes the frontier loop.
type CrawlConfig struct {
	// Delay between frontier items, for politeness toward the upstream
	// source — it has no correctness role.
	Delay    time.Duration `mapstructure:"delay"`
	MaxItems int           `mapstructure:"max_items"`
}

// ServerConfig controls the read-only HTTP API.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AnonymizeConfig sets the default component-size threshold for redacted
// exports.
type AnonymizeConfig struct {
	MinComponentSize int `mapstructure:"min_component_size"`
}

// SetDefaults installs default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", "linkmesh.db")
	v.SetDefault("crawl.delay", 2*time.Second)
	v.SetDefault("crawl.max_items", 0)
	v.SetDefault("server.listen", "127.0.0.1:18690")
	v.SetDefault("anonymize.min_component_size", 2)
}

// SetupEnv binds LINKMESH_* environment variables.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("LINKMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults when empty)
// with environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, lmerr.Errorf(lmerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates an already-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, lmerr.Errorf(lmerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, lmerr.Errorf(lmerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}
	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	if c.Storage.Path == "" {
		errs = append(errs, lmerr.New(lmerr.CodeConfigValidateInvalidValue,
			"config: storage.path must not be empty"))
	}
	if c.Crawl.Delay < 0 {
		errs = append(errs, lmerr.Errorf(lmerr.CodeConfigValidateInvalidValue,
			"config: crawl.delay must not be negative, got %s", c.Crawl.Delay))
	}
	if c.Crawl.MaxItems < 0 {
		errs = append(errs, lmerr.Errorf(lmerr.CodeConfigValidateInvalidValue,
			"config: crawl.max_items must not be negative, got %d", c.Crawl.MaxItems))
	}
	if c.Server.Listen == "" {
		errs = append(errs, lmerr.New(lmerr.CodeConfigValidateInvalidValue,
			"config: server.listen must not be empty"))
	}
	if c.Anonymize.MinComponentSize < 0 {
		errs = append(errs, lmerr.Errorf(lmerr.CodeConfigValidateInvalidValue,
			"config: anonymize.min_component_size must not be negative, got %d", c.Anonymize.MinComponentSize))
	}

	return errs
}
