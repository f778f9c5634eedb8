package mcsched

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const IDLE = "IDLE"

type ScheduleEntry struct {
	At    Tftick
	JobID string // empty when the core went idle
}

func (e ScheduleEntry) Idle() bool {
	return e.JobID == ""
}

// "T<task> (J<n>)", or IDLE
func (e ScheduleEntry) Label() string {
	if e.Idle() {
		return IDLE
	}
	i := strings.LastIndex(e.JobID, "-")
	if i < 0 {
		return e.JobID
	}
	return fmt.Sprintf("T%v (J%v)", e.JobID[:i], e.JobID[i+1:])
}

// Schedule records which job was dispatched at each instant. Dispatch times
// never go backwards, so a second dispatch at the same instant replaces the
// last entry.
type Schedule struct {
	entries []ScheduleEntry
}

func newSchedule() *Schedule {
	return &Schedule{entries: make([]ScheduleEntry, 0)}
}

func (s *Schedule) record(at Tftick, j *Job) {
	e := ScheduleEntry{At: at}
	if j != nil {
		e.JobID = j.ID()
	}
	if n := len(s.entries); n > 0 && feq(s.entries[n-1].At, at) {
		s.entries[n-1] = e
		return
	}
	s.entries = append(s.entries, e)
}

func (s *Schedule) Entries() []ScheduleEntry {
	return s.entries
}

// At returns the entry recorded for the given instant.
func (s *Schedule) At(at Tftick) (ScheduleEntry, bool) {
	for _, e := range s.entries {
		if feq(e.At, at) {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

func (s *Schedule) String() string {
	var b strings.Builder
	for _, e := range s.entries {
		fmt.Fprintf(&b, "%v <-- %v\n", float64(e.At), e.Label())
	}
	return b.String()
}

// Digest fingerprints the whole table; two runs with the same task set and
// execution times produce the same digest.
func (s *Schedule) Digest() uint64 {
	h := xxhash.New()
	for _, e := range s.entries {
		fmt.Fprintf(h, "%.5f:%s;", float64(e.At), e.JobID)
	}
	return h.Sum64()
}
