package mcsched

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAlreadyRan = errors.New("simulator already ran")

type Outcome int

const (
	SUCCESS Outcome = iota
	FAIL
)

func (o Outcome) String() string {
	return []string{"success", "fail"}[o]
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ModeChange records the single LO to HI transition of a run.
type ModeChange struct {
	At      Tftick           `json:"at"`
	Reason  ModeChangeReason `json:"reason"`
	Trigger []string         `json:"trigger"`
	Evicted []string         `json:"evicted"`
}

// FailureError is a hard deadline miss. It ends the loop and is turned into a
// failed Result by Run; it never leaves the package as an error.
type FailureError struct {
	At   Tftick
	Jobs []*Job
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("deadline missed at %v by %v", e.At, strings.Join(jobIds(e.Jobs), ", "))
}

type Result struct {
	TaskSetID  string      `json:"taskSetId"`
	Outcome    Outcome     `json:"outcome"`
	At         Tftick      `json:"at"` // failure instant, or the duration
	Duration   Ttick       `json:"duration"`
	Analysis   Analysis    `json:"analysis"`
	ModeChange *ModeChange `json:"modeChange,omitempty"`
	Failed     []*Job      `json:"-"`
	Schedule   *Schedule   `json:"-"`
	Tasks      []*Task     `json:"-"`
}

func (r *Result) FailedIDs() []string {
	return jobIds(r.Failed)
}

// Simulator drives one run of a task set: arrivals, the ticks of every time
// unit, then end of unit monitoring, until the duration elapses or a hard
// deadline miss ends it.
type Simulator struct {
	cfg        Config
	taskSetID  string
	sys        *System
	tasks      []*Task // arena; jobs refer to their task by index
	q          *Queue
	core       *Core
	sched      *Scheduler
	src        ExecTimeSource
	sink       EventSink
	time       Ttick
	analysis   Analysis
	modeChange *ModeChange
	ran        bool
}

func NewSimulator(cfg Config, ts TaskSet, src ExecTimeSource, sink EventSink) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = LevelExecTime{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	sc := cfg.Scheduling
	sim := &Simulator{
		cfg:       cfg,
		taskSetID: ts.ID,
		sys:       newSystem(sc.InitialSystemLevel, sc.Traditional),
		tasks:     make([]*Task, len(ts.Tasks)),
		q:         newQueue(),
		core:      newCore(sc.Frequency, sc.WorkPerTick, sink),
		src:       src,
		sink:      sink,
	}
	for i, spec := range ts.Tasks {
		sim.tasks[i] = newTask(i, spec)
	}
	sim.sched = newScheduler(sim.q, sim.core, sim.sys, sink)
	return sim, nil
}

func (sim *Simulator) String() string {
	return fmt.Sprintf("time %v, %v, q %v", sim.time, sim.sched, sim.q)
}

func (sim *Simulator) Tasks() []*Task          { return sim.tasks }
func (sim *Simulator) System() *System         { return sim.sys }
func (sim *Simulator) Schedule() *Schedule     { return sim.sched.schedule }
func (sim *Simulator) Analysis() Analysis      { return sim.analysis }
func (sim *Simulator) ModeChange() *ModeChange { return sim.modeChange }

// Run simulates the whole duration. A hard deadline miss is a FAIL result; an
// error means the execution time source broke its contract.
func (sim *Simulator) Run() (*Result, error) {
	if sim.ran {
		return nil, ErrAlreadyRan
	}
	sim.ran = true
	sim.analysis = sim.sched.analyse(sim.tasks)

	for sim.time = 0; sim.time < sim.cfg.Simulation.Duration; sim.time++ {
		if err := sim.tick(); err != nil {
			var fe *FailureError
			if errors.As(err, &fe) {
				return sim.finish(FAIL, fe.At, fe.Jobs), nil
			}
			return nil, err
		}
	}
	return sim.finish(SUCCESS, Tftick(sim.cfg.Simulation.Duration), nil), nil
}

// one time unit
func (sim *Simulator) tick() error {
	sim.checkForcedOverrun()
	if err := sim.checkJobArrivals(); err != nil {
		return err
	}
	sim.core.process(sim.time, sim.monitorPerClock)
	return sim.monitorTimeUnit()
}

func (sim *Simulator) checkForcedOverrun() {
	at, err := sim.cfg.Scheduling.ExactOverrunTime.Get()
	if err != nil || Ttick(at) > sim.time || !sim.sys.ModeChangePossible() {
		return
	}
	trigger := make([]*Job, 0, 1)
	if j := sim.core.current(); j != nil {
		trigger = append(trigger, j)
	}
	sim.switchMode(trigger, Tftick(sim.time), FORCED, true)
}

// releases the due jobs; in HI mode LO jobs are still generated but dropped
func (sim *Simulator) checkJobArrivals() error {
	admitted := false
	for _, t := range sim.tasks {
		j, err := t.generateJob(sim.time, sim.src, sim.sys)
		if err != nil {
			return err
		}
		if j == nil {
			continue
		}
		ignored := sim.sys.Level() == HI && j.Level() == LO
		sim.sink.Arrival(sim.time, j, ignored)
		if !ignored {
			sim.q.enq(j)
			admitted = true
		}
	}
	if admitted {
		sim.sched.reschedule(Tftick(sim.time))
		sim.sink.ReadyQueue(sim.time, sim.q.getQ())
	}
	return nil
}

// runs after every tick with the job that held the core during it
func (sim *Simulator) monitorPerClock(j *Job, clock int) {
	if j == nil {
		return
	}
	elapsed := round(Tftick(sim.time)+sim.core.tickLength()*Tftick(clock+1), WORK_PRECISION)
	if sim.cfg.Scheduling.OverrunWatching == PER_CLOCK && j.HasOverrun() {
		if j.IsFinished() {
			sim.jobFinish(j, elapsed, false)
		}
		sim.switchMode([]*Job{j}, elapsed, OVERRUN, true)
		return
	}
	if j.IsFinished() {
		sim.jobFinish(j, elapsed, true)
	}
}

// monitorTimeUnit checks deadlines and, when watching per execution,
// overruns at the end of the current time unit. A miss against a true
// deadline fails the run; a HI miss against a virtual deadline only raises
// the system to HI.
func (sim *Simulator) monitorTimeUnit() error {
	elapsed := Tftick(sim.time + 1)
	changed := false

	hiMisses := filterJobs(sim.q.deadlineMisses(elapsed), func(j *Job) bool { return j.Level() == HI })
	if len(hiMisses) > 0 {
		trueMisses := filterJobs(hiMisses, func(j *Job) bool { return j.hasMissedActualDeadline(elapsed) })
		if len(trueMisses) > 0 || !sim.sys.ModeChangePossible() {
			if len(trueMisses) == 0 {
				trueMisses = hiMisses
			}
			sim.sink.DeadlineMiss(elapsed, hiMisses)
			sim.q.batchPop(hiMisses)
			return &FailureError{At: elapsed, Jobs: trueMisses}
		}
		sim.switchMode(hiMisses, elapsed, HI_DEADLINE_MISS, false)
		changed = true
	}

	if sim.cfg.Scheduling.OverrunWatching == PER_EXECUTION && sim.sys.ModeChangePossible() {
		if over := sim.q.overrunners(); len(over) > 0 {
			sim.switchMode(over, elapsed, OVERRUN, false)
			changed = true
		}
	}

	// the mode change may have moved deadlines and emptied the LO side
	if misses := sim.q.deadlineMisses(elapsed); len(misses) > 0 {
		sim.sink.DeadlineMiss(elapsed, misses)
		sim.q.batchPop(misses)
		changed = true
		level := sim.sys.Level()
		if failed := filterJobs(misses, func(j *Job) bool { return j.Level() == level }); len(failed) > 0 {
			return &FailureError{At: elapsed, Jobs: failed}
		}
	}

	if changed {
		sim.sched.reschedule(elapsed)
	}
	return nil
}

// switchMode raises the system to HI and evicts every LO job. Once in HI, or
// when running traditional EDF, it does nothing.
func (sim *Simulator) switchMode(trigger []*Job, at Tftick, reason ModeChangeReason, dispatch bool) {
	if !sim.sys.ModeChangePossible() || !sim.sys.switchToHI() {
		return
	}
	evicted := sim.q.abortLoJobs()
	sim.modeChange = &ModeChange{
		At:      at,
		Reason:  reason,
		Trigger: jobIds(trigger),
		Evicted: jobIds(evicted),
	}
	sim.sink.Overrun(at, trigger, reason)
	if dispatch {
		sim.sched.reschedule(at)
	}
}

func (sim *Simulator) jobFinish(j *Job, at Tftick, dispatch bool) {
	sim.sink.JobFinish(at, j)
	sim.q.pop(j)
	if dispatch {
		sim.sched.reschedule(at)
	}
}

func (sim *Simulator) finish(outcome Outcome, at Tftick, failed []*Job) *Result {
	if outcome == FAIL {
		sim.sink.Failure(at, failed)
	}
	sim.sink.Schedule(sim.sched.schedule)
	res := &Result{
		TaskSetID:  sim.taskSetID,
		Outcome:    outcome,
		At:         at,
		Duration:   sim.cfg.Simulation.Duration,
		Analysis:   sim.analysis,
		ModeChange: sim.modeChange,
		Failed:     failed,
		Schedule:   sim.sched.schedule,
		Tasks:      sim.tasks,
	}
	sim.sink.Save(res)
	return res
}
