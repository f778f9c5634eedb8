package mcsched

import (
	"bytes"
	"testing"

	"github.com/markphelps/optional"
	"github.com/stretchr/testify/require"
)

func TestLoggerCategories(t *testing.T) {
	cfg := DefaultConfig().Log
	cfg.Settings.Dispatch = false
	var buf bytes.Buffer
	l := NewLogger(cfg, &buf)

	_, res := runSim(t, testConfig(10), mixedTaskSet, nil, l)
	require.Equal(t, SUCCESS, res.Outcome)

	out := buf.String()
	require.Contains(t, out, "category=arrival")
	require.Contains(t, out, "category=utilization")
	require.Contains(t, out, `msg="job finished"`)
	require.NotContains(t, out, "category=dispatch")
	require.NotContains(t, out, "category=clock")
}

func TestLoggerDisabled(t *testing.T) {
	cfg := DefaultConfig().Log
	cfg.Enabled = false
	var buf bytes.Buffer
	_, _ = runSim(t, testConfig(10), mixedTaskSet, nil, NewLogger(cfg, &buf))
	require.Zero(t, buf.Len())
}

func TestLoggerOverrunCategory(t *testing.T) {
	simCfg := testConfig(10)
	simCfg.Scheduling.ExactOverrunTime = optional.NewInt(1)

	var buf bytes.Buffer
	_, res := runSim(t, simCfg, mixedTaskSet, LoExecTime{}, NewLogger(DefaultConfig().Log, &buf))
	require.NotNil(t, res.ModeChange)
	require.Contains(t, buf.String(), "category=overrun")

	cfg := DefaultConfig().Log
	cfg.Settings.Overrun = false
	buf.Reset()
	_, _ = runSim(t, simCfg, mixedTaskSet, LoExecTime{}, NewLogger(cfg, &buf))
	require.NotContains(t, buf.String(), "category=overrun")
	require.Contains(t, buf.String(), "category=arrival")
}
