package cmd

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// benchConfig holds the bench settings. A YAML file provides the base
// values; flags set on the command line override them.
type benchConfig struct {
	Strategies  []string `yaml:"strategies"`
	MinPow      int      `yaml:"min_pow"`
	MaxPow      int      `yaml:"max_pow"`
	Reps        int      `yaml:"reps"`
	Seed        uint64   `yaml:"seed"`
	Workers     int      `yaml:"workers"`
	OutDir      string   `yaml:"out_dir"`
	MetricsFile string   `yaml:"metrics_file"`
	JSON        bool     `yaml:"json"`
	RecordCheck bool     `yaml:"record_check"`
}

// maxPow bounds sizes to 10^9 records.
const maxPow = 9

func defaultBenchConfig() *benchConfig {
	return &benchConfig{
		Strategies: []string{strategyBoth},
		MinPow:     0,
		MaxPow:     3,
		Reps:       100,
		Seed:       1,
		Workers:    runtime.GOMAXPROCS(0),
		OutDir:     "./out",
	}
}

// loadBenchConfig reads a YAML config file over the defaults.
func loadBenchConfig(path string) (*benchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := defaultBenchConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *benchConfig) validate() error {
	if _, err := expandStrategies(c.Strategies); err != nil {
		return err
	}
	if c.MinPow < 0 || c.MaxPow < c.MinPow || c.MaxPow > maxPow {
		return fmt.Errorf("invalid size range 10^%d..10^%d (powers must satisfy 0 <= min <= max <= %d)",
			c.MinPow, c.MaxPow, maxPow)
	}
	if c.Reps < 1 {
		return fmt.Errorf("reps must be at least 1, got %d", c.Reps)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir must be set")
	}
	return nil
}
