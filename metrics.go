package mcsched

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports the run as prometheus series on its own registry, so
// several runs in one process never share counters.
type Metrics struct {
	reg          *prometheus.Registry
	arrived      *prometheus.CounterVec
	preemptions  *prometheus.CounterVec
	misses       *prometheus.CounterVec
	finished     *prometheus.CounterVec
	modeChanges  *prometheus.CounterVec
	responseTime *prometheus.HistogramVec
	vdf          prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		arrived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsched_jobs_arrived_total",
				Help: "Jobs released, by criticality level and whether they were dropped in HI mode.",
			},
			[]string{"level", "ignored"},
		),
		preemptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsched_preemptions_total",
				Help: "Preemptions, by preempted and preempting level.",
			},
			[]string{"kind"},
		),
		misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsched_deadline_misses_total",
				Help: "Jobs evicted for missing their deadline.",
			},
			[]string{"level"},
		),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsched_jobs_finished_total",
				Help: "Jobs that completed their work.",
			},
			[]string{"level"},
		),
		modeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcsched_mode_changes_total",
				Help: "LO to HI mode changes, by trigger.",
			},
			[]string{"reason"},
		),
		responseTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcsched_response_time_units",
				Help:    "Response time of finished jobs in time units.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"level"},
		),
		vdf: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcsched_virtual_deadline_factor",
			Help: "Virtual deadline factor picked by the analysis.",
		}),
	}
	m.reg.MustRegister(m.arrived, m.preemptions, m.misses, m.finished, m.modeChanges, m.responseTime, m.vdf)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func (m *Metrics) Utilization(a Analysis) {
	m.vdf.Set(a.VDF)
}

func (m *Metrics) Arrival(_ Ttick, j *Job, ignored bool) {
	m.arrived.WithLabelValues(j.Level().String(), strconv.FormatBool(ignored)).Inc()
}

func (m *Metrics) Preemption(_ Tftick, preempter *Job, preempted *Job) {
	m.preemptions.WithLabelValues(string(preemptionKind(preempter, preempted))).Inc()
}

func (m *Metrics) Overrun(_ Tftick, _ []*Job, reason ModeChangeReason) {
	m.modeChanges.WithLabelValues(reason.String()).Inc()
}

func (m *Metrics) JobFinish(_ Tftick, j *Job) {
	m.finished.WithLabelValues(j.Level().String()).Inc()
	if rt, ok := j.ResponseTime(); ok {
		m.responseTime.WithLabelValues(j.Level().String()).Observe(float64(rt))
	}
}

func (m *Metrics) DeadlineMiss(_ Tftick, jobs []*Job) {
	for _, j := range jobs {
		m.misses.WithLabelValues(j.Level().String()).Inc()
	}
}

func (m *Metrics) FeasibilityTest(bool, Policy)    {}
func (m *Metrics) ReadyQueue(Ttick, []*Job)        {}
func (m *Metrics) Dispatch(Tftick, *Job)           {}
func (m *Metrics) Clock(int, Tftick, Tftick, *Job) {}
func (m *Metrics) Failure(Tftick, []*Job)          {}
func (m *Metrics) Schedule(*Schedule)              {}
func (m *Metrics) Save(*Result)                    {}
