package mcsched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.False(t, cfg.Scheduling.ExactOverrunTime.Present())
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "cfg.json", `{
		"simulation": {"duration": 50, "overrunProbabilityPercentage": 30, "execTimeMode": "random"},
		"scheduling": {"exactOverrunTime": 0, "overrunWatchingMechanism": "per_execution", "initialSystemLevel": "LO"},
		"log": {"enabled": false, "level": "debug"}
	}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Ttick(50), cfg.Simulation.Duration)
	require.Equal(t, EXEC_RANDOM, cfg.Simulation.ExecTimeMode)
	require.Equal(t, PER_EXECUTION, cfg.Scheduling.OverrunWatching)
	require.True(t, cfg.Scheduling.ExactOverrunTime.Present())
	require.Equal(t, 0, cfg.Scheduling.ExactOverrunTime.OrElse(-1))
	require.False(t, cfg.Log.Enabled)

	// untouched sections keep their defaults
	require.Equal(t, 10, cfg.Scheduling.Frequency)
	require.Equal(t, DefaultConfig().Tasks, cfg.Tasks)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":  `{"simulation": {"speed": 2}}`,
		"watching":       `{"scheduling": {"overrunWatchingMechanism": "per_tick"}}`,
		"negative force": `{"scheduling": {"exactOverrunTime": -1}}`,
		"frequency":      `{"scheduling": {"frequency": 0}}`,
		"work per tick":  `{"scheduling": {"workDonePerClock": 0}}`,
		"probability":    `{"simulation": {"overrunProbabilityPercentage": 101}}`,
		"exec mode":      `{"simulation": {"execTimeMode": "max"}}`,
		"CF":             `{"tasks": {"CF": 1}}`,
		"CP":             `{"tasks": {"CP": 1}}`,
		"periods":        `{"tasks": {"minPeriod": 30, "maxPeriod": 20}}`,
		"log level":      `{"log": {"level": "loud"}}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "cfg.json", content))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
