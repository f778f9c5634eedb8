package mcsched

import (
	"errors"
	"fmt"
)

var ErrInvalidTaskSet = errors.New("invalid task set")

type ExecutionTime struct {
	LO Tftick `json:"LO"`
	HI Tftick `json:"HI"`
}

func (c ExecutionTime) at(l Level) Tftick {
	if l == HI {
		return c.HI
	}
	return c.LO
}

// the largest amount of work a job of the task may ever need; LO tasks
// usually carry no HI budget (HI == 0)
func (c ExecutionTime) ceiling() Tftick {
	return maxOf(c.LO, c.HI)
}

// TaskSpec describes one periodic task of a task set.
type TaskSpec struct {
	ID       string        `json:"id"`
	Period   Ttick         `json:"period"`
	Deadline Ttick         `json:"deadline,omitempty"`
	Level    Level         `json:"level"`
	C        ExecutionTime `json:"c"`
	Phase    Ttick         `json:"phase,omitempty"`
}

type TaskSet struct {
	ID    string     `json:"id"`
	Tasks []TaskSpec `json:"tasks"`
}

func (ts TaskSet) Validate() error {
	if len(ts.Tasks) == 0 {
		return fmt.Errorf("%w: %q has no tasks", ErrInvalidTaskSet, ts.ID)
	}
	seen := make(map[string]bool, len(ts.Tasks))
	for _, t := range ts.Tasks {
		switch {
		case t.ID == "":
			return fmt.Errorf("%w: task without id", ErrInvalidTaskSet)
		case seen[t.ID]:
			return fmt.Errorf("%w: duplicate task id %q", ErrInvalidTaskSet, t.ID)
		case t.Period <= 0:
			return fmt.Errorf("%w: task %q: period must be positive", ErrInvalidTaskSet, t.ID)
		case t.Deadline != 0 && t.Deadline != t.Period:
			return fmt.Errorf("%w: task %q: only implicit deadlines are supported", ErrInvalidTaskSet, t.ID)
		case t.Phase < 0 || t.Phase >= t.Period:
			return fmt.Errorf("%w: task %q: phase must be in [0, period)", ErrInvalidTaskSet, t.ID)
		case t.C.LO < 0 || t.C.HI < 0:
			return fmt.Errorf("%w: task %q: negative execution time", ErrInvalidTaskSet, t.ID)
		case t.C.HI != 0 && t.C.HI < t.C.LO:
			return fmt.Errorf("%w: task %q: C(HI) below C(LO)", ErrInvalidTaskSet, t.ID)
		case t.Level == HI && t.C.HI == 0:
			return fmt.Errorf("%w: task %q: HI task needs a C(HI)", ErrInvalidTaskSet, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
