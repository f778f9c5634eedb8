package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"mcsched"
)

func TestPrintReport(t *testing.T) {
	cfg := mcsched.DefaultConfig()
	cfg.Simulation.Duration = 20
	cfg.Log.Enabled = false
	stats := mcsched.NewStats(cfg.Scheduling)
	sim, err := mcsched.NewSimulator(cfg, mcsched.MCSSimpleTaskSet, mcsched.LoExecTime{}, stats)
	require.NoError(t, err)
	res, err := sim.Run()
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, res, stats)
	out := buf.String()
	require.Contains(t, out, "MCSSimpleTaskSet")
	require.Contains(t, out, "T2 (J0)")
	require.Contains(t, out, "success after 20 time units")
}
