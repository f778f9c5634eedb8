package mcsched

import "fmt"

type Policy int

const (
	EDF Policy = iota
	EDF_VD
)

func (p Policy) String() string {
	return []string{"edf", "edf-vd"}[p]
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Scheduler orders the ready queue, hands its head to the core and keeps the
// schedule table.
type Scheduler struct {
	policy   Policy
	q        *Queue
	core     *Core
	sys      *System
	sink     EventSink
	schedule *Schedule
}

func newScheduler(q *Queue, core *Core, sys *System, sink EventSink) *Scheduler {
	return &Scheduler{
		policy:   EDF,
		q:        q,
		core:     core,
		sys:      sys,
		sink:     sink,
		schedule: newSchedule(),
	}
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("scheduler %v on %v, %v", s.policy, s.core, s.sys)
}

func (s *Scheduler) Policy() Policy {
	return s.policy
}

// hasPriority orders by deadline; at equal deadlines HI jobs go first.
// Anything else is a tie, which the stable sort resolves by insertion order.
func hasPriority(a, b *Job) bool {
	da, db := a.Deadline(), b.Deadline()
	if !feq(da, db) {
		return da < db
	}
	return a.Level() == HI && b.Level() == LO
}

func (s *Scheduler) sched() {
	s.q.sort(hasPriority)
}

// dispatch gives the core to the head of the queue, or idles it. A job that
// already left the queue is vacated first, so replacing it is no preemption.
func (s *Scheduler) dispatch(t Tftick) *Job {
	if prev := s.core.current(); prev != nil && !s.q.contains(prev) {
		s.core.vacate()
	}
	j := s.q.head()
	s.core.assign(j, t)
	s.schedule.record(t, j)
	s.sink.Dispatch(t, j)
	return j
}

func (s *Scheduler) reschedule(t Tftick) *Job {
	s.sched()
	return s.dispatch(t)
}
