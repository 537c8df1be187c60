// Package config provides configuration management for the kd-tree build service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"

	"github.com/kdsah/raytracer/pkg/errors"
)

// Config holds all configuration for the application.
type Config struct {
	Build BuildConfig `mapstructure:"build"`
	Pool  PoolConfig  `mapstructure:"pool"`
	Log   LogConfig   `mapstructure:"log"`
}

// BuildConfig holds SAH cost-model and recursion tuning.
type BuildConfig struct {
	TraversalCost     float64 `mapstructure:"traversal_cost"`
	IntersectionCost  float64 `mapstructure:"intersection_cost"`
	EmptyBonus        float64 `mapstructure:"empty_bonus"`
	ParallelThreshold int     `mapstructure:"parallel_threshold"`
	MaxAbsoluteDepth  int     `mapstructure:"max_absolute_depth"`
}

// PoolConfig holds worker-pool sizing.
type PoolConfig struct {
	// Workers is the fixed worker count. 0 means "detect hardware concurrency".
	Workers int `mapstructure:"workers"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/kdtrace")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("build.traversal_cost", 0.3)
	v.SetDefault("build.intersection_cost", 1.0)
	v.SetDefault("build.empty_bonus", 0.8)
	v.SetDefault("build.parallel_threshold", 10000)
	v.SetDefault("build.max_absolute_depth", 64)

	v.SetDefault("pool.workers", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration and resolves Pool.Workers to a
// concrete worker count. A zero worker count that cannot be resolved from
// detected hardware concurrency is a configuration error (spec §4.3/§4.7).
func (c *Config) Validate() error {
	if c.Pool.Workers == 0 {
		c.Pool.Workers = runtime.NumCPU()
	}
	if c.Pool.Workers < 1 {
		return errors.New(errors.CodeConfigError, "worker count not derivable and not overridden")
	}
	if c.Build.MaxAbsoluteDepth < 1 || c.Build.MaxAbsoluteDepth > 64 {
		return errors.New(errors.CodeConfigError, "max_absolute_depth must be in [1, 64]")
	}
	return nil
}
