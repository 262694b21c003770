// Package config loads min-seq settings from an optional YAML file, an
// optional .env file and MINSEQ_ prefixed environment variables, in
// increasing order of precedence.
//
//	parallel:
//	  workers: 8
//	  min_chunk_size: 64
//	log:
//	  level: debug
//	  format: console
//
// The same settings can be given as MINSEQ_PARALLEL_WORKERS=8 or
// MINSEQ_LOG_LEVEL=debug.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/lguimbarda/min-seq/logger"
	"github.com/lguimbarda/min-seq/seq/parallel"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "MINSEQ"

// Config is the top-level configuration.
type Config struct {
	Parallel parallel.Config `yaml:"parallel" mapstructure:"parallel"`
	Log      logger.Config   `yaml:"log" mapstructure:"log"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Parallel.ApplyDefaults()
	c.Log.ApplyDefaults()
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

type loaderConfig struct {
	configFile string
	envFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*loaderConfig)

// WithConfigFile sets the YAML file to read. A missing file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets the .env file to load into the environment before
// environment variables are read. Variables already set are not
// overridden. A missing file is an error.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads and validates the configuration, then applies defaults.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()
	setDefaults(v)

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", lc.configFile, err)
		}
	}

	if lc.envFile != "" {
		if _, err := os.Stat(lc.envFile); err != nil {
			return nil, fmt.Errorf("config: env file: %w", err)
		}
		if err := godotenv.Load(lc.envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", lc.envFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("parallel.workers", 0)
	v.SetDefault("parallel.min_chunk_size", parallel.DefaultMinChunkSize)
	v.SetDefault("parallel.split_factor", parallel.DefaultSplitFactor)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatJSON)
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.no_color", false)
	v.SetDefault("log.timestamp", true)
	v.SetDefault("log.caller", false)
}
