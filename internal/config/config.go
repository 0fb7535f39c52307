// Package config loads the settings of the cohort command.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Evaluator names.
const (
	EvaluatorNative = "native"
	EvaluatorCEL    = "cel"
)

// Config holds all configuration for the command
type Config struct {
	Entities  string    `mapstructure:"entities"`
	Cohorts   string    `mapstructure:"cohorts"`
	Evaluator string    `mapstructure:"evaluator"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "development" or "production"
}

// New returns a viper instance with defaults, environment variables
// (COHORT_ENTITIES, COHORT_LOG_LEVEL, ...) and config file search paths set.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("cohort")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("cohort")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.cohort")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("entities", "entities.tsv")
	v.SetDefault("cohorts", "entity_cohorts.tsv")
	v.SetDefault("evaluator", EvaluatorNative)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "development")
}

// Load reads the config file, if any, and returns the validated config.
// If file is empty, the search paths set by New are used and a missing file
// is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config values.
func (c *Config) Validate() error {
	if c.Entities == "" {
		return fmt.Errorf("config: entities path is required")
	}
	if c.Cohorts == "" {
		return fmt.Errorf("config: cohorts path is required")
	}
	switch c.Evaluator {
	case EvaluatorNative, EvaluatorCEL:
	default:
		return fmt.Errorf("config: unknown evaluator %q (want %s or %s)", c.Evaluator, EvaluatorNative, EvaluatorCEL)
	}
	switch c.Log.Format {
	case "development", "production":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}
