package mcsched

import (
	"gonum.org/v1/gonum/floats"
)

// Analysis is the static utilization analysis done before a run. The
// utilizations are the raw sums of C/T, compared against the core speed.
type Analysis struct {
	Speed            float64 `json:"speed"`
	U11              float64 `json:"U11"` // LO tasks at C(LO)
	U12              float64 `json:"U12"` // LO tasks at C(HI)
	U21              float64 `json:"U21"` // HI tasks at C(LO)
	U22              float64 `json:"U22"` // HI tasks at C(HI)
	U                float64 `json:"vdf"` // candidate virtual deadline factor
	TaskSetCheck     bool    `json:"taskSetCheck"`
	NecessityCheck   bool    `json:"necessaryCheck"`
	SufficiencyCheck bool    `json:"sufficientCheck"`
	Feasible         bool    `json:"feasible"`
	Policy           Policy  `json:"policy"`
	VDF              float64 `json:"virtualDeadlineFactor"`
}

func utilization(tasks []*Task, ofLevel Level, inLevel Level) float64 {
	us := make([]float64, 0, len(tasks))
	for _, t := range tasks {
		if t.Level == ofLevel {
			us = append(us, float64(t.C.at(inLevel))/float64(t.Period))
		}
	}
	return floats.Sum(us)
}

func taskSetCheck(tasks []*Task) bool {
	for _, t := range tasks {
		if t.C.LO > Tftick(t.Period) || t.C.HI > Tftick(t.Period) {
			return false
		}
	}
	return true
}

func (s *Scheduler) necessityCheck(a Analysis) bool {
	if s.sys.Traditional() {
		if s.sys.Level() == HI {
			return a.U22 <= a.Speed
		}
		return a.U11+a.U22 <= a.Speed
	}
	return a.U11+a.U21 <= a.Speed && a.U22 <= a.Speed
}

func (s *Scheduler) sufficiencyCheck(a Analysis) bool {
	if s.sys.Traditional() {
		if s.sys.Level() == HI {
			return a.U21 <= a.Speed
		}
		return a.U11+a.U21 <= a.Speed
	}
	return a.U11+a.U22 <= a.Speed || (a.U > 0 && a.U11+a.U <= a.Speed)
}

// analyse computes the utilizations of the task set, picks EDF or EDF-VD and
// fixes the virtual deadline factor. It never blocks the run: a set that
// fails the checks still gets simulated.
func (s *Scheduler) analyse(tasks []*Task) Analysis {
	speed := s.core.speed()
	a := Analysis{
		Speed: speed,
		U11:   utilization(tasks, LO, LO),
		U12:   utilization(tasks, LO, HI),
		U21:   utilization(tasks, HI, LO),
		U22:   utilization(tasks, HI, HI),
	}
	// no factor can help once HI demand alone fills the core
	if speed-a.U22 > 0 {
		a.U = a.U21 / (speed - a.U22)
	}
	a.TaskSetCheck = taskSetCheck(tasks)
	a.NecessityCheck = s.necessityCheck(a)
	a.SufficiencyCheck = s.sufficiencyCheck(a)
	a.Feasible = a.TaskSetCheck && a.NecessityCheck && a.SufficiencyCheck

	if s.sys.Traditional() || a.U11+a.U22 <= speed {
		s.policy = EDF
		s.sys.setVirtualDeadlineFactor(1)
	} else if a.U11+a.U <= speed && a.U > 0 {
		s.policy = EDF_VD
		s.sys.setVirtualDeadlineFactor(a.U)
	}
	a.Policy = s.policy
	a.VDF = s.sys.VirtualDeadlineFactor()

	s.sink.Utilization(a)
	s.sink.FeasibilityTest(a.Feasible, s.policy)
	return a
}
