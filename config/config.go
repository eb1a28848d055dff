// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// config loads runtime settings for the coherence checker from defaults, an optional
// config file and COHERENCE_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds the checker's runtime settings.
type Config struct {
	Solver SolverConfig `mapstructure:"solver"`
	Check  CheckConfig  `mapstructure:"check"`
	Log    LogConfig    `mapstructure:"log"`
}

type SolverConfig struct {
	// MaxDepth bounds how deeply the reference solver nests implementation clauses.
	MaxDepth int `mapstructure:"max_depth"`
	// Timeout bounds each solver query; zero disables the bound.
	Timeout time.Duration `mapstructure:"timeout"`
}

type CheckConfig struct {
	// Parallelism is how many traits are checked at once.
	Parallelism int `mapstructure:"parallelism"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("solver.max_depth", 64)
	v.SetDefault("solver.timeout", 10*time.Second)
	v.SetDefault("check.parallelism", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// New creates a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("COHERENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the configuration. If path is empty, only defaults and the environment apply;
// otherwise the file at path (TOML or YAML, by extension) is read as well.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that settings are in range.
func (c *Config) Validate() error {
	if c.Solver.MaxDepth < 1 {
		return errors.WithHint(
			errors.Newf("solver.max_depth must be positive, got %d", c.Solver.MaxDepth),
			"set solver.max_depth or COHERENCE_SOLVER_MAX_DEPTH")
	}
	if c.Solver.Timeout < 0 {
		return errors.Newf("solver.timeout must not be negative, got %s", c.Solver.Timeout)
	}
	if c.Check.Parallelism < 1 {
		return errors.Newf("check.parallelism must be positive, got %d", c.Check.Parallelism)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}
