package mcsched

import (
	"sort"
	"strings"
)

// Queue is the ready queue: released jobs that are neither finished nor
// evicted. Its order is whatever the last sort left.
type Queue struct {
	q []*Job
}

func newQueue() *Queue {
	q := &Queue{q: make([]*Job, 0)}
	return q
}

func (q *Queue) String() string {
	if len(q.q) == 0 {
		return "[]"
	}
	strs := make([]string, len(q.q))
	for i, j := range q.q {
		strs[i] = j.String()
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

func (q *Queue) enq(j *Job) {
	q.q = append(q.q, j)
}

// removes the job with the same id
func (q *Queue) pop(j *Job) {
	q.batchPop([]*Job{j})
}

func (q *Queue) batchPop(jobs []*Job) {
	if len(jobs) == 0 {
		return
	}
	ids := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		ids[j.ID()] = true
	}
	newQ := make([]*Job, 0, len(q.q))
	for _, j := range q.q {
		if !ids[j.ID()] {
			newQ = append(newQ, j)
		}
	}
	q.q = newQ
}

// stable, so jobs the comparator cannot tell apart keep their insertion order
func (q *Queue) sort(less func(a, b *Job) bool) {
	sort.SliceStable(q.q, func(i, k int) bool {
		return less(q.q[i], q.q[k])
	})
}

// nil when empty
func (q *Queue) head() *Job {
	if len(q.q) == 0 {
		return nil
	}
	return q.q[0]
}

func (q *Queue) contains(j *Job) bool {
	for _, qj := range q.q {
		if qj.ID() == j.ID() {
			return true
		}
	}
	return false
}

func (q *Queue) qlen() int {
	return len(q.q)
}

func (q *Queue) getQ() []*Job {
	return q.q
}

func (q *Queue) deadlineMisses(t Tftick) []*Job {
	return filterJobs(q.q, func(j *Job) bool { return j.HasMissedDeadline(t) })
}

// abortLoJobs evicts every LO job and returns them. Evicted jobs are neither
// finished nor missed.
func (q *Queue) abortLoJobs() []*Job {
	los := filterJobs(q.q, func(j *Job) bool { return j.Level() == LO })
	q.batchPop(los)
	return los
}

func (q *Queue) overrunners() []*Job {
	return filterJobs(q.q, func(j *Job) bool { return j.HasOverrun() })
}
