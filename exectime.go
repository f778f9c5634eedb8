package mcsched

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ExecTimeSource supplies the actual execution time of a job. It is asked
// once per job, when the job is released.
type ExecTimeSource interface {
	Generate(jobID string, t *Task) Tftick
}

type ExecTimeFunc func(jobID string, t *Task) Tftick

func (f ExecTimeFunc) Generate(jobID string, t *Task) Tftick {
	return f(jobID, t)
}

// every job needs exactly its C(LO)
type LoExecTime struct{}

func (LoExecTime) Generate(_ string, t *Task) Tftick { return t.C.LO }

// every job needs its WCET ceiling
type HiExecTime struct{}

func (HiExecTime) Generate(_ string, t *Task) Tftick { return t.C.ceiling() }

// HI jobs take their C(HI), LO jobs their C(LO)
type LevelExecTime struct{}

func (LevelExecTime) Generate(_ string, t *Task) Tftick {
	if t.Level == HI {
		return t.C.ceiling()
	}
	return t.C.LO
}

// RandomExecTime draws execution times and records them in a trace, so a
// later run over the same task set replays them. With the given probability
// a job overruns: its time is drawn from [C(LO), C(HI)], otherwise from
// [C(LO)/2, C(LO)].
type RandomExecTime struct {
	trace   *ExecTrace
	overrun distuv.Bernoulli
	src     rand.Source
}

func NewRandomExecTime(overrunPercentage float64, seed uint64, trace *ExecTrace) *RandomExecTime {
	src := rand.NewSource(seed)
	return &RandomExecTime{
		trace:   trace,
		overrun: distuv.Bernoulli{P: overrunPercentage / 100, Src: src},
		src:     src,
	}
}

func (r *RandomExecTime) Generate(jobID string, t *Task) Tftick {
	if r.trace != nil {
		if v, ok := r.trace.Lookup(jobID); ok {
			return v
		}
	}
	ceiling := t.C.ceiling()
	lo, hi := t.C.LO/2, t.C.LO
	if r.overrun.Rand() == 1 {
		lo, hi = t.C.LO, ceiling
	}
	v := round(r.uniform(lo, hi), DEADLINE_PRECISION)
	if v > ceiling {
		v = ceiling
	}
	if r.trace != nil {
		r.trace.record(jobID, v)
	}
	return v
}

func (r *RandomExecTime) uniform(lo, hi Tftick) Tftick {
	if feq(lo, hi) {
		return lo
	}
	u := distuv.Uniform{Min: float64(lo), Max: float64(hi), Src: r.src}
	return Tftick(u.Rand())
}

// NewExecTimeSource picks the source for the configured mode. The trace is
// only used by the random mode and may be nil.
func NewExecTimeSource(cfg SimulationConfig, trace *ExecTrace) ExecTimeSource {
	switch cfg.ExecTimeMode {
	case EXEC_LO:
		return LoExecTime{}
	case EXEC_HI:
		return HiExecTime{}
	case EXEC_RANDOM:
		return NewRandomExecTime(cfg.OverrunProbabilityPercentage, cfg.Seed, trace)
	default:
		return LevelExecTime{}
	}
}
