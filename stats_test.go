package mcsched

import (
	"path/filepath"
	"testing"

	"github.com/markphelps/optional"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDistribution(t *testing.T) {
	d := &Distribution{}
	require.Equal(t, DistributionSummary{}, d.Summary())

	for _, v := range []float64{1, 2, 3, 4} {
		d.update(v)
	}
	s := d.Summary()
	require.Equal(t, 4, s.Count)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 4.0, s.Max)
	require.InDelta(t, 2.5, s.Avg, EPSILON)
	require.InDelta(t, 1.118034, s.StdDev, 1e-5)
}

func TestStatsAndMetricsForcedOverrun(t *testing.T) {
	cfg := testConfig(30)
	cfg.Scheduling.ExactOverrunTime = optional.NewInt(1)
	stats := NewStats(cfg.Scheduling)
	metrics := NewMetrics()
	_, res := runSim(t, cfg, mixedTaskSet, LoExecTime{}, MultiSink{stats, metrics})
	require.Equal(t, SUCCESS, res.Outcome)

	require.Equal(t, JobCounts{LO: 2, HI: 5, Ignored: 4}, stats.Jobs)
	require.Equal(t, map[Level]int{LO: 0, HI: 5}, stats.Finished)
	require.Equal(t, map[Level]int{LO: 0, HI: 0}, stats.DeadlineMisses)
	at, err := stats.ModeChangeAt.Get()
	require.NoError(t, err)
	require.Equal(t, 1.0, at)
	require.Equal(t, "forced", stats.ModeChangeReason)

	// T1 and T2 never complete a job
	require.Zero(t, stats.ResponseTimes["1"].Count)
	require.Zero(t, stats.ResponseTimes["2"].Count)
	require.Equal(t, 3, stats.ResponseTimes["3"].Count)
	require.Equal(t, 2, stats.ResponseTimes["4"].Count)
	require.InDelta(t, 2.0, stats.ResponseTimes["4"].Max, EPSILON)

	// 5 HI jobs of one unit each over 30 units; 1-0 was evicted before it ran
	require.InDelta(t, 5.0/30, stats.ActualUtilization.HI, 1e-9)
	require.Zero(t, stats.ActualUtilization.LO)

	require.Equal(t, 4.0, testutil.ToFloat64(metrics.arrived.WithLabelValues("LO", "true")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.arrived.WithLabelValues("LO", "false")))
	require.Equal(t, 5.0, testutil.ToFloat64(metrics.arrived.WithLabelValues("HI", "false")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.modeChanges.WithLabelValues("forced")))
	require.Equal(t, 5.0, testutil.ToFloat64(metrics.finished.WithLabelValues("HI")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.vdf))
	require.Equal(t, 1, testutil.CollectAndCount(metrics.responseTime))
}

func TestStatsPreemptionKinds(t *testing.T) {
	ts := TaskSet{
		ID: "preempt",
		Tasks: []TaskSpec{
			{ID: "A", Period: 10, Level: LO, C: ExecutionTime{LO: 5}},
			{ID: "B", Period: 5, Level: HI, C: ExecutionTime{LO: 1, HI: 1}, Phase: 2},
		},
	}
	cfg := testConfig(10)
	stats := NewStats(cfg.Scheduling)
	metrics := NewMetrics()
	_, res := runSim(t, cfg, ts, nil, MultiSink{stats, metrics})

	require.Equal(t, SUCCESS, res.Outcome)
	require.Equal(t, 1, stats.Preemptions[LO_BY_HI])
	require.Equal(t, 0, stats.Preemptions[LO_BY_LO])
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.preemptions.WithLabelValues(string(LO_BY_HI))))
}

func TestMetricsTextfile(t *testing.T) {
	metrics := NewMetrics()
	_, _ = runSim(t, testConfig(10), mixedTaskSet, nil, metrics)
	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, metrics.WriteToTextfile(path))
	require.FileExists(t, path)
}
