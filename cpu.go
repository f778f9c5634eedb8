package mcsched

import "fmt"

// Core is a single processor. Each time unit is split into frequency ticks of
// equal length, and each tick does workPerTick units of work on the current
// job.
type Core struct {
	frequency   int
	workPerTick Tftick
	currJob     *Job
	sink        EventSink
}

func newCore(frequency int, workPerTick Tftick, sink EventSink) *Core {
	return &Core{
		frequency:   frequency,
		workPerTick: workPerTick,
		sink:        sink,
	}
}

func (c *Core) String() string {
	if c.currJob == nil {
		return fmt.Sprintf("core f=%v wpt=%v: idle", c.frequency, float64(c.workPerTick))
	}
	return fmt.Sprintf("core f=%v wpt=%v: running %v", c.frequency, float64(c.workPerTick), c.currJob.ID())
}

// work done per time unit
func (c *Core) speed() float64 {
	return float64(c.frequency) * float64(c.workPerTick)
}

func (c *Core) tickLength() Tftick {
	return 1 / Tftick(c.frequency)
}

func (c *Core) current() *Job {
	return c.currJob
}

// drops the current job without it counting as preempted
func (c *Core) vacate() {
	c.currJob = nil
}

func (c *Core) assign(j *Job, t Tftick) {
	if c.isPreemption(j) {
		c.sink.Preemption(t, j, c.currJob)
	}
	c.currJob = j
}

func (c *Core) isPreemption(newJob *Job) bool {
	return newJob != nil && c.currJob != nil && !c.currJob.IsFinished() && newJob.ID() != c.currJob.ID()
}

// process runs the frequency ticks of time unit start. After each tick the
// callback sees the job that occupied the core during it (nil when idle), so
// it can react to completions and overruns before the next tick.
func (c *Core) process(start Ttick, perTick func(j *Job, clock int)) {
	for clock := 0; clock < c.frequency; clock++ {
		j := c.run(start, clock)
		perTick(j, clock)
	}
}

func (c *Core) run(st Ttick, clock int) *Job {
	start := round(Tftick(st)+c.tickLength()*Tftick(clock), WORK_PRECISION)
	end := round(Tftick(st)+c.tickLength()*Tftick(clock+1), WORK_PRECISION)
	if c.currJob != nil {
		c.currJob.execute(c.workPerTick, end)
	}
	c.sink.Clock(clock, start, end, c.currJob)
	return c.currJob
}
