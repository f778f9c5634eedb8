package mcsched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueOps(t *testing.T) {
	sys := newSystem(LO, false)
	q := newQueue()
	require.Nil(t, q.head())

	a := newJob("a-0", 0, loSpec, 0, 1, sys)
	b := newJob("b-0", 1, hiSpec, 0, 1, sys)
	c := newJob("c-0", 2, loSpec, 5, 1, sys)
	q.enq(a)
	q.enq(b)
	q.enq(c)
	require.Equal(t, 3, q.qlen())
	require.True(t, q.contains(b))

	q.sort(hasPriority)
	require.Equal(t, []string{"b-0", "a-0", "c-0"}, jobIds(q.getQ()))
	require.Equal(t, b, q.head())

	q.pop(a)
	require.False(t, q.contains(a))
	require.Equal(t, []string{"b-0", "c-0"}, jobIds(q.getQ()))

	q.batchPop([]*Job{b, c})
	require.Zero(t, q.qlen())
	require.Nil(t, q.head())
}

func TestQueueAbortLoJobs(t *testing.T) {
	sys := newSystem(LO, false)
	q := newQueue()
	q.enq(newJob("l-0", 0, loSpec, 0, 1, sys))
	q.enq(newJob("h-0", 1, hiSpec, 0, 1, sys))
	q.enq(newJob("l-1", 0, loSpec, 10, 1, sys))

	evicted := q.abortLoJobs()
	require.Equal(t, []string{"l-0", "l-1"}, jobIds(evicted))
	require.Equal(t, []string{"h-0"}, jobIds(q.getQ()))
	require.Empty(t, q.abortLoJobs())
}

func TestQueueDeadlineMissesAndOverrunners(t *testing.T) {
	sys := newSystem(LO, false)
	q := newQueue()
	done := newJob("l-0", 0, loSpec, 0, 0.1, sys)
	done.execute(0.1, 0.1)
	late := newJob("l-1", 0, loSpec, 0, 2, sys)
	over := newJob("h-0", 1, hiSpec, 5, 2, sys)
	over.execute(1, 6)
	for _, j := range []*Job{done, late, over} {
		q.enq(j)
	}

	require.Equal(t, []string{"l-1"}, jobIds(q.deadlineMisses(10)))
	require.Empty(t, q.deadlineMisses(9.9))
	require.Equal(t, []string{"h-0"}, jobIds(q.overrunners()))
}
