package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateRejectsZeroFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"maxTasks", Config{MaxTasks: 0, TicksPerMicrosecond: 1, SliceQuantumTicks: 1, MaxSleepChunkSeconds: 1}},
		{"ticksPerUs", Config{MaxTasks: 1, TicksPerMicrosecond: 0, SliceQuantumTicks: 1, MaxSleepChunkSeconds: 1}},
		{"sliceQuantum", Config{MaxTasks: 1, TicksPerMicrosecond: 1, SliceQuantumTicks: 0, MaxSleepChunkSeconds: 1}},
		{"maxSleepChunk", Config{MaxTasks: 1, TicksPerMicrosecond: 1, SliceQuantumTicks: 1, MaxSleepChunkSeconds: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestLoadConfigOverlaysPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_tasks: 8\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxTasks)
	assert.EqualValues(t, DefaultConfig().TicksPerMicrosecond, cfg.TicksPerMicrosecond)
	assert.EqualValues(t, DefaultConfig().SliceQuantumTicks, cfg.SliceQuantumTicks)
}

func TestLoadConfigRejectsInvalidOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_tasks: 0\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
