package sched

import (
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v3"
)

// Config holds the scheduler's fixed ceilings and tick-rate constants.
// It is the YAML-loadable analogue of a compile-time MAX_TASKS/CLOCKHZ
// constant table.
type Config struct {
	MaxTasks             int    `yaml:"max_tasks"`
	TicksPerMicrosecond  uint64 `yaml:"ticks_per_microsecond"`
	SliceQuantumTicks    uint64 `yaml:"slice_quantum_ticks"`
	MaxSleepChunkSeconds uint64 `yaml:"max_sleep_chunk_seconds"`
}

// DefaultConfig picks 64 tasks and a sleep-chunk bound of 1800s, chosen
// to keep signed tick arithmetic from overflowing on a long Sleep.
func DefaultConfig() Config {
	return Config{
		MaxTasks:             64,
		TicksPerMicrosecond:  1,
		SliceQuantumTicks:    1,
		MaxSleepChunkSeconds: 1800,
	}
}

// LoadConfig reads a YAML document and overlays it onto DefaultConfig,
// so a partial file only needs to name the fields it overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sched: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sched: parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations with any zero field: a zero task
// ceiling, tick rate, slice quantum or sleep-chunk bound.
func (c Config) Validate() error {
	if c.MaxTasks <= 0 {
		return fmt.Errorf("sched: max_tasks must be positive, got %d", c.MaxTasks)
	}
	if c.TicksPerMicrosecond == 0 {
		return fmt.Errorf("sched: ticks_per_microsecond must be positive")
	}
	if c.SliceQuantumTicks == 0 {
		return fmt.Errorf("sched: slice_quantum_ticks must be positive")
	}
	if c.MaxSleepChunkSeconds == 0 {
		return fmt.Errorf("sched: max_sleep_chunk_seconds must be positive")
	}
	return nil
}
