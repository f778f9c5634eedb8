package mcsched

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type TraceEntry struct {
	ID   string `json:"id"`
	Time Tftick `json:"time"`
}

// ExecTrace is the saved list of execution times drawn for a task set at a
// given overrun probability.
type ExecTrace struct {
	TaskSetID                    string       `json:"taskSetId"`
	OverrunProbabilityPercentage float64      `json:"overrunProbabilityPercentage"`
	Duration                     Ttick        `json:"duration"`
	Jobs                         []TraceEntry `json:"jobs"`

	byID map[string]int
}

func NewExecTrace(taskSetID string, overrunPercentage float64) *ExecTrace {
	return &ExecTrace{
		TaskSetID:                    taskSetID,
		OverrunProbabilityPercentage: overrunPercentage,
		Jobs:                         make([]TraceEntry, 0),
		byID:                         make(map[string]int),
	}
}

func tracePath(dir, taskSetID string, overrunPercentage float64) string {
	return filepath.Join(dir, fmt.Sprintf("%v(%v%%).json", taskSetID, overrunPercentage))
}

// LoadExecTrace returns the saved trace for the task set, or an empty one
// when there is none or it was drawn at another overrun probability.
func LoadExecTrace(dir, taskSetID string, overrunPercentage float64) (*ExecTrace, error) {
	fresh := NewExecTrace(taskSetID, overrunPercentage)
	b, err := os.ReadFile(tracePath(dir, taskSetID, overrunPercentage))
	if errors.Is(err, fs.ErrNotExist) {
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	tr := &ExecTrace{}
	if err := json.Unmarshal(b, tr); err != nil {
		return nil, fmt.Errorf("trace of %v: %w", taskSetID, err)
	}
	if tr.OverrunProbabilityPercentage != overrunPercentage {
		return fresh, nil
	}
	tr.byID = make(map[string]int, len(tr.Jobs))
	for i, e := range tr.Jobs {
		tr.byID[e.ID] = i
	}
	return tr, nil
}

func (tr *ExecTrace) Len() int {
	return len(tr.Jobs)
}

func (tr *ExecTrace) Lookup(jobID string) (Tftick, bool) {
	i, ok := tr.byID[jobID]
	if !ok {
		return 0, false
	}
	return tr.Jobs[i].Time, true
}

func (tr *ExecTrace) record(jobID string, v Tftick) {
	if tr.byID == nil {
		tr.byID = make(map[string]int)
	}
	if i, ok := tr.byID[jobID]; ok {
		tr.Jobs[i].Time = v
		return
	}
	tr.byID[jobID] = len(tr.Jobs)
	tr.Jobs = append(tr.Jobs, TraceEntry{ID: jobID, Time: v})
}

// Save writes the trace unless the one on disk already covers a run at least
// as long. It reports whether it wrote.
func (tr *ExecTrace) Save(dir string, duration Ttick) (bool, error) {
	path := tracePath(dir, tr.TaskSetID, tr.OverrunProbabilityPercentage)
	if b, err := os.ReadFile(path); err == nil {
		saved := &ExecTrace{}
		if json.Unmarshal(b, saved) == nil && saved.Duration >= duration {
			return false, nil
		}
	}
	tr.Duration = duration
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	b, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(path, b, 0o644)
}
