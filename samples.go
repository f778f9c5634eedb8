package mcsched

import (
	"fmt"
	"sort"
)

var PreemptiveSimpleTaskSet = TaskSet{
	ID: "PreemptiveSimpleTaskSet",
	Tasks: []TaskSpec{
		{ID: "1", Period: 4, Level: LO, C: ExecutionTime{LO: 1}},
		{ID: "2", Period: 10, Level: LO, C: ExecutionTime{LO: 6}},
	},
}

var MCSSimpleTaskSet = TaskSet{
	ID: "MCSSimpleTaskSet",
	Tasks: []TaskSpec{
		{ID: "1", Period: 10, Level: LO, C: ExecutionTime{LO: 1}, Phase: 1},
		{ID: "2", Period: 10, Level: LO, C: ExecutionTime{LO: 2}},
		{ID: "3", Period: 10, Level: HI, C: ExecutionTime{LO: 1, HI: 3}, Phase: 2},
		{ID: "4", Period: 15, Level: HI, C: ExecutionTime{LO: 1, HI: 3}},
	},
}

var samples = map[string]TaskSet{
	PreemptiveSimpleTaskSet.ID: PreemptiveSimpleTaskSet,
	MCSSimpleTaskSet.ID:        MCSSimpleTaskSet,
}

func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for n := range samples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Sample(name string) (TaskSet, error) {
	ts, ok := samples[name]
	if !ok {
		return TaskSet{}, fmt.Errorf("%w: no sample named %q", ErrInvalidTaskSet, name)
	}
	// callers get their own task slice
	ts.Tasks = append([]TaskSpec(nil), ts.Tasks...)
	return ts, nil
}
