package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadBenchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := `
strategies: [multi]
min_pow: 1
max_pow: 4
reps: 10
seed: 99
out_dir: /tmp/permbench
metrics_file: bench.prom
json: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadBenchConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"multi"}, cfg.Strategies)
	assert.Equal(t, 1, cfg.MinPow)
	assert.Equal(t, 4, cfg.MaxPow)
	assert.Equal(t, 10, cfg.Reps)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, "/tmp/permbench", cfg.OutDir)
	assert.Equal(t, "bench.prom", cfg.MetricsFile)
	assert.True(t, cfg.JSON)
	// Unset keys keep their defaults.
	assert.Equal(t, defaultBenchConfig().Workers, cfg.Workers)
	assert.False(t, cfg.RecordCheck)
	require.NoError(t, cfg.validate())
}

func TestLoadBenchConfigErrors(t *testing.T) {
	_, err := loadBenchConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reps: [1, 2"), 0o644))
	_, err = loadBenchConfig(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestBenchConfigRoundTrip(t *testing.T) {
	cfg := defaultBenchConfig()
	cfg.Strategies = []string{"single"}
	cfg.Reps = 3
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := loadBenchConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestBenchConfigValidate(t *testing.T) {
	cases := map[string]func(*benchConfig){
		"strategy":  func(c *benchConfig) { c.Strategies = []string{"none"} },
		"min pow":   func(c *benchConfig) { c.MinPow = -1 },
		"range":     func(c *benchConfig) { c.MinPow, c.MaxPow = 3, 2 },
		"too large": func(c *benchConfig) { c.MaxPow = maxPow + 1 },
		"reps":      func(c *benchConfig) { c.Reps = 0 },
		"workers":   func(c *benchConfig) { c.Workers = 0 },
		"out dir":   func(c *benchConfig) { c.OutDir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultBenchConfig()
			mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
	assert.NoError(t, defaultBenchConfig().validate())
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(os.Stderr, "debug", "json")
	assert.NoError(t, err)
	_, err = newLogger(os.Stderr, "WARN", "text")
	assert.NoError(t, err)
	_, err = newLogger(os.Stderr, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(os.Stderr, "info", "xml")
	assert.Error(t, err)
}
