// Package config loads agentnorm settings from defaults, an optional YAML
// file and AGENTNORM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "AGENTNORM"

// Config holds all application configuration.
type Config struct {
	Provider string      `mapstructure:"provider" yaml:"provider"`
	Format   string      `mapstructure:"format" yaml:"format"`
	Log      LogConfig   `mapstructure:"log" yaml:"log"`
	Batch    BatchConfig `mapstructure:"batch" yaml:"batch"`
}

// LogConfig controls diagnostics written to stderr.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // auto, console or json
}

// BatchConfig controls directory normalization.
type BatchConfig struct {
	Patterns     []string `mapstructure:"patterns" yaml:"patterns"`
	SummaryWidth int      `mapstructure:"summary_width" yaml:"summary_width"`
}

// Formats accepted for the format key. normalize treats jsonl as json; batch
// treats json as jsonl.
var Formats = []string{"json", "jsonl", "table", "plain"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider: "codex",
		Format:   "json",
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
		Batch: BatchConfig{
			Patterns:     []string{"*.jsonl"},
			SummaryWidth: 60,
		},
	}
}

// Load builds a Config. An explicit path must exist; without one, a missing
// agentnorm.yaml in the search paths is not an error. The result is not
// validated: callers apply their own overrides first, then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("agentnorm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.agentnorm")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		commaListHookFunc(),
		lowerCaseHookFunc("provider", "format", "level"),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// bindEnv registers every key so AutomaticEnv overrides reach Unmarshal even
// when no config file sets them.
func bindEnv(v *viper.Viper, cfg Config) {
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("batch.patterns", cfg.Batch.Patterns)
	v.SetDefault("batch.summary_width", cfg.Batch.SummaryWidth)
}

// commaListHookFunc splits a string such as "*.jsonl, *.log" into a list,
// dropping blank entries. Environment variables always arrive as strings.
func commaListHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
			return data, nil
		}
		var out []string
		for _, part := range strings.Split(data.(string), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
}

// lowerCaseHookFunc trims and lowercases string values for the named keys,
// so "DEBUG " and "debug" configure the same level.
func lowerCaseHookFunc(keys ...string) mapstructure.DecodeHookFuncValue {
	names := make(map[string]bool, len(keys))
	for _, k := range keys {
		names[k] = true
	}
	return func(from, to reflect.Value) (any, error) {
		if from.Kind() != reflect.Map || to.Kind() != reflect.Struct {
			return from.Interface(), nil
		}
		in, ok := from.Interface().(map[string]any)
		if !ok {
			return from.Interface(), nil
		}
		out := make(map[string]any, len(in))
		for k, v := range in {
			if s, isString := v.(string); isString && names[k] {
				v = strings.ToLower(strings.TrimSpace(s))
			}
			out[k] = v
		}
		return out, nil
	}
}

// Validate rejects settings the CLI cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider) == "" {
		return errors.New("provider must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if !slices.Contains(Formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("unknown format %q, want one of %s", c.Format, strings.Join(Formats, ", "))
	}
	for _, pattern := range c.Batch.Patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid batch pattern %q: %w", pattern, err)
		}
	}
	if c.Batch.SummaryWidth < 0 {
		return fmt.Errorf("batch.summary_width must be >= 0, got %d", c.Batch.SummaryWidth)
	}
	return nil
}

// Write dumps c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
