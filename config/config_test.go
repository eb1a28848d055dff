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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Solver.MaxDepth)
	assert.Equal(t, 10*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, 4, cfg.Check.Parallelism)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "coherence.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[solver]
max_depth = 12
timeout = "250ms"

[log]
level = "debug"
`), 0o600))
	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Solver.MaxDepth)
	assert.Equal(t, 250*time.Millisecond, cfg.Solver.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Check.Parallelism)

	yamlPath := filepath.Join(dir, "coherence.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("check:\n  parallelism: 1\nlog:\n  development: true\n"), 0o600))
	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Check.Parallelism)
	assert.True(t, cfg.Log.Development)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("COHERENCE_SOLVER_MAX_DEPTH", "5")
	t.Setenv("COHERENCE_LOG_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Solver.MaxDepth)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Solver: SolverConfig{MaxDepth: 1},
		Check:  CheckConfig{Parallelism: 1},
		Log:    LogConfig{Level: "info"},
	}
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"depth":       func(c *Config) { c.Solver.MaxDepth = 0 },
		"timeout":     func(c *Config) { c.Solver.Timeout = -time.Second },
		"parallelism": func(c *Config) { c.Check.Parallelism = 0 },
		"level":       func(c *Config) { c.Log.Level = "loud" },
	} {
		cfg := valid
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	t.Setenv("COHERENCE_CHECK_PARALLELISM", "0")
	_, err := Load("")
	assert.Error(t, err)
}
