// Package config loads obsnap's runtime configuration from a YAML file
// with environment-variable overrides, using github.com/spf13/viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// SourceConfig names one ingestion input: a symbol and the feed file path
// for the worker that will consume it.
type SourceConfig struct {
	Symbol string `mapstructure:"symbol"`
	Path   string `mapstructure:"path"`
}

// Config is the fully-resolved runtime configuration.
type Config struct {
	StoreDir string         `mapstructure:"store_dir"`
	LogLevel string         `mapstructure:"log_level"`
	Sources  []SourceConfig `mapstructure:"sources"`
	Symbols  []string       `mapstructure:"symbols"`
}

const envPrefix = "OBSNAP"

// Load reads configuration from path (if it exists) and overlays
// OBSNAP_*-prefixed environment variables on top, per SPEC_FULL.md §6.5.
// A missing config file is not an error: defaults plus environment
// variables alone are a valid configuration.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("store_dir", "./data")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
