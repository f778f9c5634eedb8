package mcsched

import (
	"fmt"

	"github.com/markphelps/optional"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Distribution struct {
	samples []float64
}

func (d *Distribution) update(v float64) {
	d.samples = append(d.samples, v)
}

func (d *Distribution) Count() int {
	return len(d.samples)
}

func (d *Distribution) Summary() DistributionSummary {
	if len(d.samples) == 0 {
		return DistributionSummary{}
	}
	mean, std := stat.PopMeanStdDev(d.samples, nil)
	return DistributionSummary{
		Count:  len(d.samples),
		Min:    floats.Min(d.samples),
		Max:    floats.Max(d.samples),
		Avg:    mean,
		StdDev: std,
	}
}

type DistributionSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	StdDev float64 `json:"stdDev"`
}

func (ds DistributionSummary) String() string {
	return fmt.Sprintf("n %v, min %.3f, max %.3f, avg %.3f, stdDev %.3f", ds.Count, ds.Min, ds.Max, ds.Avg, ds.StdDev)
}

// PreemptionKind is "<preempted level>by<preempter level>", e.g. LObyHI.
type PreemptionKind string

const (
	LO_BY_LO PreemptionKind = "LObyLO"
	LO_BY_HI PreemptionKind = "LObyHI"
	HI_BY_LO PreemptionKind = "HIbyLO"
	HI_BY_HI PreemptionKind = "HIbyHI"
)

func preemptionKind(preempter, preempted *Job) PreemptionKind {
	return PreemptionKind(preempted.Level().String() + "by" + preempter.Level().String())
}

type JobCounts struct {
	LO      int `json:"LO"`
	HI      int `json:"HI"`
	Ignored int `json:"ignored"`
}

type Utilizations struct {
	LO float64 `json:"LO"`
	HI float64 `json:"HI"`
}

// Stats aggregates one run. Evicted jobs never finish, so they take no part
// in the response times.
type Stats struct {
	speed float64

	Analysis              Analysis                       `json:"analysis"`
	ModeChangeAt          optional.Float64               `json:"modeChangeAt"`
	ModeChangeReason      string                         `json:"modeChangeReason,omitempty"`
	Preemptions           map[PreemptionKind]int         `json:"preemptions"`
	DeadlineMisses        map[Level]int                  `json:"deadlineMisses"`
	Jobs                  JobCounts                      `json:"totalJobs"`
	Finished              map[Level]int                  `json:"finishedJobs"`
	ResponseTimes         map[string]DistributionSummary `json:"responseTimes"`
	ActualUtilization     Utilizations                   `json:"actualUtilization"`
	OutOfLevelUtilization Utilizations                   `json:"outOfLevelUtilization"`
	Outcome               Outcome                        `json:"outcome"`
	At                    float64                        `json:"at"`
}

func NewStats(cfg SchedulingConfig) *Stats {
	return &Stats{
		speed:          float64(cfg.Frequency) * float64(cfg.WorkPerTick),
		Preemptions:    map[PreemptionKind]int{LO_BY_LO: 0, LO_BY_HI: 0, HI_BY_LO: 0, HI_BY_HI: 0},
		DeadlineMisses: map[Level]int{LO: 0, HI: 0},
		Finished:       map[Level]int{LO: 0, HI: 0},
		ResponseTimes:  make(map[string]DistributionSummary),
	}
}

func (s *Stats) String() string {
	return fmt.Sprintf("outcome %v at %v, jobs %+v, finished %v, misses %v, preemptions %v",
		s.Outcome, s.At, s.Jobs, s.Finished, s.DeadlineMisses, s.Preemptions)
}

func (s *Stats) Utilization(a Analysis) {
	s.Analysis = a
}

func (s *Stats) FeasibilityTest(bool, Policy) {}

func (s *Stats) Arrival(_ Ttick, j *Job, ignored bool) {
	switch {
	case ignored:
		s.Jobs.Ignored++
	case j.Level() == HI:
		s.Jobs.HI++
	default:
		s.Jobs.LO++
	}
}

func (s *Stats) ReadyQueue(Ttick, []*Job) {}

func (s *Stats) Preemption(_ Tftick, preempter *Job, preempted *Job) {
	s.Preemptions[preemptionKind(preempter, preempted)]++
}

func (s *Stats) Overrun(at Tftick, _ []*Job, reason ModeChangeReason) {
	s.ModeChangeAt = optional.NewFloat64(float64(at))
	s.ModeChangeReason = reason.String()
}

func (s *Stats) JobFinish(_ Tftick, j *Job) {
	s.Finished[j.Level()]++
}

func (s *Stats) DeadlineMiss(_ Tftick, jobs []*Job) {
	for _, j := range jobs {
		s.DeadlineMisses[j.Level()]++
	}
}

func (s *Stats) Dispatch(Tftick, *Job)           {}
func (s *Stats) Clock(int, Tftick, Tftick, *Job) {}
func (s *Stats) Failure(Tftick, []*Job)          {}
func (s *Stats) Schedule(*Schedule)              {}

// Save computes the response time distributions per task and the work done
// per level relative to what the core could have done over the run.
func (s *Stats) Save(res *Result) {
	s.Outcome = res.Outcome
	s.At = float64(res.At)

	work := map[Level][]float64{LO: {}, HI: {}}
	outOfLevel := map[Level][]float64{LO: {}, HI: {}}
	for _, t := range res.Tasks {
		d := &Distribution{}
		for _, j := range t.Jobs() {
			work[j.Level()] = append(work[j.Level()], float64(j.ExecutedTime()))
			if j.ExecutedAtLevel() != j.Level() {
				outOfLevel[j.Level()] = append(outOfLevel[j.Level()], float64(j.ExecutedTime()))
			}
			if rt, ok := j.ResponseTime(); ok {
				d.update(float64(rt))
			}
		}
		s.ResponseTimes[t.ID] = d.Summary()
	}

	capacity := float64(res.At) * s.speed
	if capacity <= 0 {
		return
	}
	s.ActualUtilization = Utilizations{LO: floats.Sum(work[LO]) / capacity, HI: floats.Sum(work[HI]) / capacity}
	s.OutOfLevelUtilization = Utilizations{LO: floats.Sum(outOfLevel[LO]) / capacity, HI: floats.Sum(outOfLevel[HI]) / capacity}
}
