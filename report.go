package mcsched

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type resultDocument struct {
	Config     Config            `json:"config"`
	TaskSetID  string            `json:"taskSetId"`
	Outcome    Outcome           `json:"outcome"`
	At         float64           `json:"at"`
	Failed     []string          `json:"failed,omitempty"`
	ModeChange *ModeChange       `json:"modeChange,omitempty"`
	Statistics *Stats            `json:"statistics,omitempty"`
	Digest     string            `json:"digest"`
	Schedule   map[string]string `json:"schedule"`
}

// ScheduleTable keys every dispatch as t-<time>.
func ScheduleTable(s *Schedule) map[string]string {
	table := make(map[string]string, len(s.Entries()))
	for _, e := range s.Entries() {
		table[fmt.Sprintf("t-%v", float64(e.At))] = e.Label()
	}
	return table
}

func resultPath(dir string, res *Result, cfg Config) string {
	name := fmt.Sprintf("%v(%v%%)(%v).json", res.TaskSetID, cfg.Simulation.OverrunProbabilityPercentage, cfg.Simulation.Duration)
	return filepath.Join(dir, name)
}

// SaveResult writes the outcome, statistics and schedule of a run and
// returns the file it wrote. stats may be nil.
func SaveResult(dir string, res *Result, stats *Stats, cfg Config) (string, error) {
	doc := resultDocument{
		Config:     cfg,
		TaskSetID:  res.TaskSetID,
		Outcome:    res.Outcome,
		At:         float64(res.At),
		Failed:     res.FailedIDs(),
		ModeChange: res.ModeChange,
		Statistics: stats,
		Digest:     fmt.Sprintf("%016x", res.Schedule.Digest()),
		Schedule:   ScheduleTable(res.Schedule),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	path := resultPath(dir, res, cfg)
	return path, os.WriteFile(path, b, 0o644)
}
