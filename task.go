package mcsched

import (
	"errors"
	"fmt"
)

var ErrExecTimeExceedsWCET = errors.New("actual execution time outside [0, WCET]")

// Task is a periodic generator of jobs. Its parameters never change after
// construction; the job history is append-only.
type Task struct {
	TaskSpec
	idx  int
	jobs []*Job
}

func newTask(idx int, spec TaskSpec) *Task {
	if spec.Deadline == 0 {
		spec.Deadline = spec.Period
	}
	return &Task{
		TaskSpec: spec,
		idx:      idx,
		jobs:     make([]*Job, 0),
	}
}

func (t *Task) String() string {
	return fmt.Sprintf("{T%v period %v level %v C(LO) %v C(HI) %v phase %v}", t.ID, t.Period, t.Level, float64(t.C.LO), float64(t.C.HI), t.Phase)
}

func (t *Task) Jobs() []*Job {
	return t.jobs
}

func (t *Task) releasesAt(time Ttick) bool {
	return time%t.Period == t.Phase
}

// generateJob releases the next job of the task if one is due at time. The
// execution time source is asked exactly once per job.
func (t *Task) generateJob(time Ttick, src ExecTimeSource, sys *System) (*Job, error) {
	if !t.releasesAt(time) {
		return nil, nil
	}
	id := fmt.Sprintf("%v-%v", t.ID, len(t.jobs))
	actual := src.Generate(id, t)
	if actual < 0 {
		return nil, fmt.Errorf("%w: job %v got a negative execution time %v", ErrExecTimeExceedsWCET, id, float64(actual))
	}
	if fgt(actual, t.C.ceiling()) {
		return nil, fmt.Errorf("%w: job %v got %v, C(HI) of T%v is %v", ErrExecTimeExceedsWCET, id, float64(actual), t.ID, float64(t.C.ceiling()))
	}
	j := newJob(id, t.idx, t.TaskSpec, time, actual, sys)
	t.jobs = append(t.jobs, j)
	return j, nil
}
