package mcsched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type clockSink struct {
	NopSink
	ticks [][2]float64
}

func (c *clockSink) Clock(_ int, start Tftick, end Tftick, _ *Job) {
	c.ticks = append(c.ticks, [2]float64{float64(start), float64(end)})
}

func TestCoreTicks(t *testing.T) {
	sink := &clockSink{}
	core := newCore(4, 0.25, sink)
	require.Equal(t, 1.0, core.speed())

	sys := newSystem(LO, false)
	j := newJob("l-0", 0, loSpec, 2, 1, sys)
	core.assign(j, 2)

	seen := make([]int, 0)
	finishedAt := -1
	core.process(2, func(cur *Job, clock int) {
		require.Equal(t, j, cur)
		seen = append(seen, clock)
		if cur.IsFinished() && finishedAt < 0 {
			finishedAt = clock
		}
	})
	require.Equal(t, []int{0, 1, 2, 3}, seen)
	require.Equal(t, 3, finishedAt)
	require.Equal(t, [][2]float64{{2, 2.25}, {2.25, 2.5}, {2.5, 2.75}, {2.75, 3}}, sink.ticks)

	rt, ok := j.ResponseTime()
	require.True(t, ok)
	require.Equal(t, Tftick(1), rt)
}

func TestCoreIdleTicks(t *testing.T) {
	core := newCore(3, 0.1, NopSink{})
	n := 0
	core.process(0, func(cur *Job, _ int) {
		require.Nil(t, cur)
		n++
	})
	require.Equal(t, 3, n)
}

func TestCorePreemption(t *testing.T) {
	rec := &recordingSink{}
	core := newCore(10, 0.1, rec)
	sys := newSystem(LO, false)
	a := newJob("a-0", 0, loSpec, 0, 1, sys)
	b := newJob("b-0", 1, loSpec, 0, 1, sys)

	core.assign(a, 0)
	core.assign(a, 0.5)
	require.Empty(t, rec.preemptions)

	core.assign(b, 0.5)
	require.Equal(t, []preemptionEvent{{0.5, "b-0", "a-0"}}, rec.preemptions)

	// a finished job is replaced, not preempted
	b.execute(1, 1.5)
	core.assign(a, 1.5)
	require.Len(t, rec.preemptions, 1)
}
