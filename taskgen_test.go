package mcsched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTaskSet(t *testing.T) {
	cfg := DefaultConfig().Tasks
	g := NewTaskSetGenerator(cfg, 3)
	require.Equal(t, "4-0.8-4-0.44-[5-20]", g.ID())

	ts, err := g.Generate()
	require.NoError(t, err)
	require.Equal(t, g.ID(), ts.ID)
	require.Len(t, ts.Tasks, 4)
	require.NoError(t, ts.Validate())

	his := 0
	for _, task := range ts.Tasks {
		if task.Level == HI {
			his++
		}
		require.GreaterOrEqual(t, task.Period, cfg.MinPeriod)
		require.LessOrEqual(t, task.Period, cfg.MaxPeriod)
		require.Greater(t, float64(task.C.LO), 0.0)
		require.LessOrEqual(t, float64(task.C.HI), float64(task.Period))
		require.GreaterOrEqual(t, task.C.HI, task.C.LO)
	}
	require.Equal(t, 1, his)
}

func TestGenerateIsSeeded(t *testing.T) {
	cfg := DefaultConfig().Tasks
	a, err := NewTaskSetGenerator(cfg, 11).Generate()
	require.NoError(t, err)
	b, err := NewTaskSetGenerator(cfg, 11).Generate()
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerateGivesUp(t *testing.T) {
	cfg := TaskGenConfig{N: 1, U: 5, CF: 2, CP: 0.5, MinPeriod: 5, MaxPeriod: 10}
	_, err := NewTaskSetGenerator(cfg, 1).Generate()
	require.ErrorIs(t, err, ErrTaskSetGeneration)
}

func TestLoadOrGenerate(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig().Tasks

	first, generated, err := NewTaskSetGenerator(cfg, 5).LoadOrGenerate(dir)
	require.NoError(t, err)
	require.True(t, generated)

	// another seed still finds the saved set
	second, generated, err := NewTaskSetGenerator(cfg, 6).LoadOrGenerate(dir)
	require.NoError(t, err)
	require.False(t, generated)
	require.Equal(t, first, second)
}

func TestFeasibleWCET(t *testing.T) {
	require.Equal(t, Tftick(4), feasibleWCET(1, 4, 10))
	require.Equal(t, Tftick(10), feasibleWCET(4, 4, 10))
}

func TestSamples(t *testing.T) {
	require.Equal(t, []string{"MCSSimpleTaskSet", "PreemptiveSimpleTaskSet"}, SampleNames())
	ts, err := Sample("MCSSimpleTaskSet")
	require.NoError(t, err)
	ts.Tasks[0].Period = 99
	require.Equal(t, Ttick(10), MCSSimpleTaskSet.Tasks[0].Period)

	_, err = Sample("nope")
	require.ErrorIs(t, err, ErrInvalidTaskSet)
}
