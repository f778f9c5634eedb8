package mcsched

import (
	"fmt"

	"github.com/markphelps/optional"
)

// Job is one released instance of a task. It refers back to its task by arena
// index and keeps copies of the static parameters it needs.
type Job struct {
	id                  string
	task                int
	level               Level
	period              Ttick
	c                   ExecutionTime
	releaseTime         Ttick
	actualDeadline      Tftick
	virtualDeadline     Tftick
	actualExecutionTime Tftick // never disclosed to the scheduler
	executedTime        Tftick
	responseTime        optional.Float64
	executedAtLevel     Level
	sys                 *System
}

func newJob(id string, taskIdx int, spec TaskSpec, release Ttick, actualExecTime Tftick, sys *System) *Job {
	actualDeadline := Tftick(release + spec.Period)
	virtualDeadline := actualDeadline
	if spec.Level == HI {
		virtualDeadline = round(Tftick(float64(spec.Period)*sys.VirtualDeadlineFactor())+Tftick(release), DEADLINE_PRECISION)
	}
	return &Job{
		id:                  id,
		task:                taskIdx,
		level:               spec.Level,
		period:              spec.Period,
		c:                   spec.C,
		releaseTime:         release,
		actualDeadline:      actualDeadline,
		virtualDeadline:     virtualDeadline,
		actualExecutionTime: actualExecTime,
		executedAtLevel:     sys.Level(),
		sys:                 sys,
	}
}

func (j *Job) String() string {
	return fmt.Sprintf("{id %v, deadline %v, actualDeadline %v, level %v, executed %v, releasedAt %v, actualC %v, WCET(%v) %v, T %v}",
		j.id, float64(j.Deadline()), float64(j.actualDeadline), j.level, float64(j.executedTime), j.releaseTime,
		float64(j.actualExecutionTime), j.sys.Level(), float64(j.ExpectedExecutionTime()), j.period)
}

func (j *Job) ID() string                   { return j.id }
func (j *Job) TaskIndex() int               { return j.task }
func (j *Job) Level() Level                 { return j.level }
func (j *Job) Period() Ttick                { return j.period }
func (j *Job) ReleaseTime() Ttick           { return j.releaseTime }
func (j *Job) ActualDeadline() Tftick       { return j.actualDeadline }
func (j *Job) VirtualDeadline() Tftick      { return j.virtualDeadline }
func (j *Job) ActualExecutionTime() Tftick  { return j.actualExecutionTime }
func (j *Job) ExecutedTime() Tftick         { return j.executedTime }
func (j *Job) ExecutedAtLevel() Level       { return j.executedAtLevel }
func (j *Job) MinimumExecutionTime() Tftick { return j.c.LO }

// Deadline is the virtual deadline for HI jobs while EDF-VD scaling is
// active, the actual deadline otherwise.
func (j *Job) Deadline() Tftick {
	if j.level == HI && j.sys.virtualDeadlinesActive() {
		return j.virtualDeadline
	}
	return j.actualDeadline
}

func (j *Job) RemainingExecutionTime() Tftick {
	remaining := j.actualExecutionTime - j.executedTime
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WCET of the job's task at the current system level
func (j *Job) ExpectedExecutionTime() Tftick {
	return j.c.at(j.sys.Level())
}

func (j *Job) IsFinished() bool {
	return j.RemainingExecutionTime() <= EPSILON
}

func (j *Job) HasMissedDeadline(t Tftick) bool {
	return fgeq(t, j.Deadline()) && !j.IsFinished()
}

// past its true deadline, whatever the current scheduling deadline is
func (j *Job) hasMissedActualDeadline(t Tftick) bool {
	return fgeq(t, j.actualDeadline) && !j.IsFinished()
}

// HasOverrun reports whether the job used up the budget of the current level
// and still has work left, or went past it. Only meaningful while a mode
// change is possible.
func (j *Job) HasOverrun() bool {
	if !j.sys.ModeChangePossible() {
		return false
	}
	expected := j.ExpectedExecutionTime()
	if fgt(j.executedTime, expected) {
		return true
	}
	if feq(j.executedTime, expected) {
		return !j.IsFinished()
	}
	return false
}

func (j *Job) Overrun() Tftick {
	return j.executedTime - j.c.LO
}

// ResponseTime is only present for jobs that completed.
func (j *Job) ResponseTime() (Tftick, bool) {
	rt, err := j.responseTime.Get()
	if err != nil {
		return 0, false
	}
	return Tftick(rt), true
}

// runs the job for one quantum of work ending at time end; the executed time
// never goes past the actual execution time
func (j *Job) execute(work Tftick, end Tftick) {
	if !j.IsFinished() {
		j.executedTime = round(j.executedTime+work, WORK_PRECISION)
		if j.executedTime >= j.actualExecutionTime || feq(j.executedTime, j.actualExecutionTime) {
			j.executedTime = j.actualExecutionTime
		}
	}
	if j.IsFinished() && !j.responseTime.Present() {
		j.responseTime = optional.NewFloat64(float64(round(end-Tftick(j.releaseTime), WORK_PRECISION)))
		j.executedAtLevel = j.sys.Level()
	}
}
