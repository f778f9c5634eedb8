package mcsched

type ModeChangeReason int

const (
	OVERRUN ModeChangeReason = iota
	HI_DEADLINE_MISS
	FORCED
)

func (r ModeChangeReason) String() string {
	return []string{"overrun", "high criticality deadline miss", "forced"}[r]
}

func (r ModeChangeReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// EventSink receives one-way notifications from the simulation. Nothing it
// does can influence scheduling.
type EventSink interface {
	Utilization(a Analysis)
	FeasibilityTest(feasible bool, policy Policy)
	Arrival(at Ttick, job *Job, ignored bool)
	ReadyQueue(at Ttick, jobs []*Job)
	Preemption(at Tftick, preempter *Job, preempted *Job)
	Overrun(at Tftick, jobs []*Job, reason ModeChangeReason)
	JobFinish(at Tftick, job *Job)
	DeadlineMiss(at Tftick, jobs []*Job)
	Dispatch(at Tftick, job *Job)
	Clock(clock int, start Tftick, end Tftick, job *Job)
	Failure(at Tftick, jobs []*Job)
	Schedule(s *Schedule)
	Save(res *Result)
}

// NopSink ignores every event; embed it to implement only some of them.
type NopSink struct{}

func (NopSink) Utilization(Analysis)                     {}
func (NopSink) FeasibilityTest(bool, Policy)             {}
func (NopSink) Arrival(Ttick, *Job, bool)                {}
func (NopSink) ReadyQueue(Ttick, []*Job)                 {}
func (NopSink) Preemption(Tftick, *Job, *Job)            {}
func (NopSink) Overrun(Tftick, []*Job, ModeChangeReason) {}
func (NopSink) JobFinish(Tftick, *Job)                   {}
func (NopSink) DeadlineMiss(Tftick, []*Job)              {}
func (NopSink) Dispatch(Tftick, *Job)                    {}
func (NopSink) Clock(int, Tftick, Tftick, *Job)          {}
func (NopSink) Failure(Tftick, []*Job)                   {}
func (NopSink) Schedule(*Schedule)                       {}
func (NopSink) Save(*Result)                             {}

type MultiSink []EventSink

func (ms MultiSink) Utilization(a Analysis) {
	for _, s := range ms {
		s.Utilization(a)
	}
}

func (ms MultiSink) FeasibilityTest(feasible bool, policy Policy) {
	for _, s := range ms {
		s.FeasibilityTest(feasible, policy)
	}
}

func (ms MultiSink) Arrival(at Ttick, job *Job, ignored bool) {
	for _, s := range ms {
		s.Arrival(at, job, ignored)
	}
}

func (ms MultiSink) ReadyQueue(at Ttick, jobs []*Job) {
	for _, s := range ms {
		s.ReadyQueue(at, jobs)
	}
}

func (ms MultiSink) Preemption(at Tftick, preempter *Job, preempted *Job) {
	for _, s := range ms {
		s.Preemption(at, preempter, preempted)
	}
}

func (ms MultiSink) Overrun(at Tftick, jobs []*Job, reason ModeChangeReason) {
	for _, s := range ms {
		s.Overrun(at, jobs, reason)
	}
}

func (ms MultiSink) JobFinish(at Tftick, job *Job) {
	for _, s := range ms {
		s.JobFinish(at, job)
	}
}

func (ms MultiSink) DeadlineMiss(at Tftick, jobs []*Job) {
	for _, s := range ms {
		s.DeadlineMiss(at, jobs)
	}
}

func (ms MultiSink) Dispatch(at Tftick, job *Job) {
	for _, s := range ms {
		s.Dispatch(at, job)
	}
}

func (ms MultiSink) Clock(clock int, start Tftick, end Tftick, job *Job) {
	for _, s := range ms {
		s.Clock(clock, start, end, job)
	}
}

func (ms MultiSink) Failure(at Tftick, jobs []*Job) {
	for _, s := range ms {
		s.Failure(at, jobs)
	}
}

func (ms MultiSink) Schedule(sched *Schedule) {
	for _, s := range ms {
		s.Schedule(sched)
	}
}

func (ms MultiSink) Save(res *Result) {
	for _, s := range ms {
		s.Save(res)
	}
}
