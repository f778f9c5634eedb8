package mcsched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasPriority(t *testing.T) {
	sys := newSystem(LO, false)
	early := newJob("l-0", 0, loSpec, 0, 1, sys)
	late := newJob("l-1", 0, loSpec, 5, 1, sys)
	hi := newJob("h-0", 1, hiSpec, 0, 1, sys)

	require.True(t, hasPriority(early, late))
	require.False(t, hasPriority(late, early))
	require.True(t, hasPriority(hi, early))
	require.False(t, hasPriority(early, hi))

	twin := newJob("m-0", 2, loSpec, 0, 1, sys)
	require.False(t, hasPriority(early, twin))
	require.False(t, hasPriority(twin, early))
}

func TestSortIsStableForTies(t *testing.T) {
	sys := newSystem(LO, false)
	q := newQueue()
	for _, id := range []string{"x-0", "y-0", "z-0"} {
		q.enq(newJob(id, 0, loSpec, 0, 1, sys))
	}
	q.enq(newJob("h-0", 1, hiSpec, 0, 1, sys))
	q.sort(hasPriority)
	require.Equal(t, []string{"h-0", "x-0", "y-0", "z-0"}, jobIds(q.getQ()))
}

func TestDispatchVacatesRemovedJob(t *testing.T) {
	rec := &recordingSink{}
	sys := newSystem(LO, false)
	q := newQueue()
	core := newCore(10, 0.1, rec)
	s := newScheduler(q, core, sys, rec)

	a := newJob("a-0", 0, loSpec, 0, 1, sys)
	b := newJob("b-0", 1, loSpec, 0, 1, sys)
	q.enq(a)
	q.enq(b)
	require.Equal(t, a, s.reschedule(0))

	// a is evicted while unfinished: b takes over without a preemption
	q.pop(a)
	require.Equal(t, b, s.reschedule(1))
	require.Empty(t, rec.preemptions)

	q.pop(b)
	require.Nil(t, s.reschedule(2))
	require.Nil(t, core.current())
	require.Equal(t, []ScheduleEntry{{0, "a-0"}, {1, "b-0"}, {2, ""}}, s.schedule.Entries())
}

func TestTraditionalChecks(t *testing.T) {
	sys := newSystem(LO, true)
	s := newScheduler(newQueue(), newCore(10, 0.1, NopSink{}), sys, NopSink{})
	a := Analysis{Speed: 1, U11: 0.3, U21: 0.3, U22: 0.8}
	require.False(t, s.necessityCheck(a))
	require.True(t, s.sufficiencyCheck(a))

	hiSys := newSystem(HI, true)
	s = newScheduler(newQueue(), newCore(10, 0.1, NopSink{}), hiSys, NopSink{})
	require.True(t, s.necessityCheck(a))
	require.True(t, s.sufficiencyCheck(a))
}

func TestAnalysisWithSaturatedHI(t *testing.T) {
	sys := newSystem(LO, false)
	s := newScheduler(newQueue(), newCore(10, 0.1, NopSink{}), sys, NopSink{})
	tasks := []*Task{
		newTask(0, TaskSpec{ID: "1", Period: 10, Level: LO, C: ExecutionTime{LO: 2}}),
		newTask(1, TaskSpec{ID: "2", Period: 10, Level: HI, C: ExecutionTime{LO: 5, HI: 10}}),
	}
	a := s.analyse(tasks)
	require.Zero(t, a.U)
	require.Equal(t, EDF, a.Policy)
	require.Equal(t, 1.0, a.VDF)
	require.False(t, a.SufficiencyCheck)
	require.False(t, a.Feasible)
}
