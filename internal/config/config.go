// Package config loads and validates run parameters.
// Precedence: defaults, then an optional YAML file, then AITPBENCH_*
// environment variables, then command-line flags applied by the caller.
// Validation runs once, after all overrides; everything downstream assumes a
// validated Config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
	"github.com/danielpatrickdp/aitp-bench/internal/testbed"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name probed when --config is not given.
const DefaultFile = "aitpbench.yaml"

// Config holds one run's parameters. Immutable after Validate.
type Config struct {
	// Population is the selected run size. Consumed by logging and the
	// testbed descriptor only; the sweep iterates SweepSizes.
	Population int `json:"population" yaml:"population"`

	// Epsilon is the differential-privacy budget. Smaller means stronger
	// privacy and a larger reported privacy loss.
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`

	// RunDuration is the modeled run time in seconds, consumed by the
	// testbed descriptor only.
	RunDuration float64 `json:"run_duration" yaml:"run_duration"`

	// Strategies are compared in listed order.
	Strategies []string `json:"strategies" yaml:"strategies"`

	// SweepSizes are the population sizes every metric is evaluated at.
	// Listed order defines the column order of every output table.
	SweepSizes []int `json:"sweep_sizes" yaml:"sweep_sizes"`

	// OutputDir receives the results_*.csv tables.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DBPath is the run-history SQLite database.
	DBPath string `json:"db_path" yaml:"db_path"`

	// Fresh truncates each output table at its first write instead of
	// extending rows left by earlier runs.
	Fresh bool `json:"fresh" yaml:"fresh"`

	// Seed fixes the robustness draw sequence; 0 keeps the process-seeded
	// generator.
	Seed uint64 `json:"seed" yaml:"seed"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Testbed describes the wireless environment recorded with each run.
	Testbed testbed.Params `json:"testbed" yaml:"testbed"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Population:  500,
		Epsilon:     1.0,
		RunDuration: 10.0,
		Strategies:  strategy.Names(strategy.Default),
		SweepSizes:  []int{50, 100, 200, 300, 400, 500},
		OutputDir:   ".",
		DBPath:      "aitpbench.db",
		Fresh:       false,
		Seed:        0,
		LogLevel:    "info",
		Testbed:     testbed.DefaultParams(),
	}
}

// Load builds a Config from defaults, the given file (or DefaultFile when
// path is empty and it exists), and environment overrides. The caller applies
// flag overrides afterwards and then calls Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML config over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and names the offending value on failure.
func (c *Config) Validate() error {
	if c.Population <= 0 {
		return fmt.Errorf("population must be positive, got %d", c.Population)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	if c.RunDuration <= 0 {
		return fmt.Errorf("run_duration must be positive, got %g", c.RunDuration)
	}

	if err := strategy.Validate(strategy.IDs(c.Strategies)); err != nil {
		return err
	}

	if len(c.SweepSizes) == 0 {
		return fmt.Errorf("sweep_sizes must not be empty")
	}
	seen := make(map[int]bool, len(c.SweepSizes))
	for _, n := range c.SweepSizes {
		if n <= 0 {
			return fmt.Errorf("sweep size must be positive, got %d", n)
		}
		if seen[n] {
			return fmt.Errorf("duplicate sweep size %d", n)
		}
		seen[n] = true
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// applyEnvOverrides applies AITPBENCH_* variables. A set but unparseable
// value is an error, not a silent fallback to the default.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AITPBENCH_POPULATION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AITPBENCH_POPULATION: %q is not an integer", v)
		}
		cfg.Population = n
	}
	if v := os.Getenv("AITPBENCH_EPSILON"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AITPBENCH_EPSILON: %q is not a number", v)
		}
		cfg.Epsilon = f
	}
	if v := os.Getenv("AITPBENCH_DURATION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AITPBENCH_DURATION: %q is not a number", v)
		}
		cfg.RunDuration = f
	}
	if v := os.Getenv("AITPBENCH_STRATEGIES"); v != "" {
		cfg.Strategies = SplitList(v)
	}
	if v := os.Getenv("AITPBENCH_SIZES"); v != "" {
		sizes, err := ParseSizes(v)
		if err != nil {
			return fmt.Errorf("AITPBENCH_SIZES: %w", err)
		}
		cfg.SweepSizes = sizes
	}
	if v := os.Getenv("AITPBENCH_OUT"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("AITPBENCH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AITPBENCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AITPBENCH_FRESH"); v != "" {
		cfg.Fresh = v == "true" || v == "1"
	}
	return nil
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseSizes parses a comma-separated integer list.
func ParseSizes(s string) ([]int, error) {
	parts := SplitList(s)
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
