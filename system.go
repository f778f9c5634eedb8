package mcsched

import (
	"fmt"
	"strings"
)

type Level int

const (
	LO Level = iota
	HI
)

func (l Level) String() string {
	return []string{"LO", "HI"}[l]
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	lvl, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LO":
		return LO, nil
	case "HI":
		return HI, nil
	}
	return LO, fmt.Errorf("unknown criticality level %q", s)
}

// System is the criticality state of one run. Jobs, the scheduler and the
// simulator all hold the same *System; only the analysis sets the virtual
// deadline factor and only the simulator's mode change raises the level.
type System struct {
	level                 Level
	virtualDeadlineFactor float64
	traditional           bool
}

func newSystem(initial Level, traditional bool) *System {
	return &System{
		level:                 initial,
		virtualDeadlineFactor: 1,
		traditional:           traditional,
	}
}

func (s *System) String() string {
	return fmt.Sprintf("{level %v, vdf %.3f, traditional %v}", s.level, s.virtualDeadlineFactor, s.traditional)
}

func (s *System) Level() Level {
	return s.level
}

func (s *System) VirtualDeadlineFactor() float64 {
	return s.virtualDeadlineFactor
}

func (s *System) Traditional() bool {
	return s.traditional
}

func (s *System) ModeChangePossible() bool {
	return !s.traditional && s.level == LO
}

// EDF-VD scaling is active
func (s *System) virtualDeadlinesActive() bool {
	return s.virtualDeadlineFactor != 1 && s.level == LO
}

func (s *System) setVirtualDeadlineFactor(f float64) {
	s.virtualDeadlineFactor = f
}

// returns false if the system was already at HI
func (s *System) switchToHI() bool {
	if s.level == HI {
		return false
	}
	s.level = HI
	return true
}
