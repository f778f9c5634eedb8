package mcsched

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/markphelps/optional"
	"github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("some of the configuration values are illegal")

type OverrunWatching string

const (
	PER_CLOCK     OverrunWatching = "per_clock"     // check the running job after every tick
	PER_EXECUTION OverrunWatching = "per_execution" // scan the ready queue once per time unit
)

type ExecTimeMode string

const (
	EXEC_LO     ExecTimeMode = "lo"
	EXEC_HI     ExecTimeMode = "hi"
	EXEC_LEVEL  ExecTimeMode = "level"
	EXEC_RANDOM ExecTimeMode = "random"
)

type SimulationConfig struct {
	Duration                     Ttick        `json:"duration"`
	OverrunProbabilityPercentage float64      `json:"overrunProbabilityPercentage"` // chance of an actual C above C(LO)
	ExecTimeMode                 ExecTimeMode `json:"execTimeMode"`
	Seed                         uint64       `json:"seed"`
}

type SchedulingConfig struct {
	// when present, a mode change is forced at the first time unit at or after it
	ExactOverrunTime   optional.Int    `json:"exactOverrunTime"`
	OverrunWatching    OverrunWatching `json:"overrunWatchingMechanism"`
	Traditional        bool            `json:"traditional"` // plain EDF, no mode changes
	WorkPerTick        Tftick          `json:"workDonePerClock"`
	Frequency          int             `json:"frequency"` // ticks per time unit
	InitialSystemLevel Level           `json:"initialSystemLevel"`
}

// knobs of the random task set generator
type TaskGenConfig struct {
	N         int     `json:"n"`
	U         float64 `json:"u"`  // total utilization
	CF        float64 `json:"CF"` // criticality factor, > 1
	CP        float64 `json:"CP"` // criticality proportion, < 1
	MinPeriod Ttick   `json:"minPeriod"`
	MaxPeriod Ttick   `json:"maxPeriod"`
}

type LogSettings struct {
	Utilization  bool `json:"utilization"`
	Feasibility  bool `json:"feasibilityTest"`
	Arrival      bool `json:"arrival"`
	Preemption   bool `json:"preemption"`
	Overrun      bool `json:"overrun"`
	JobFinish    bool `json:"jobFinish"`
	DeadlineMiss bool `json:"deadlineMiss"`
	Dispatch     bool `json:"dispatch"`
	Failure      bool `json:"failure"`
	Schedule     bool `json:"schedule"`
	ReadyQueue   bool `json:"readyQ"`
	Clock        bool `json:"clock"`
}

type LogConfig struct {
	Enabled  bool        `json:"enabled"`
	Level    string      `json:"level"`
	Settings LogSettings `json:"setting"`
}

type OutputConfig struct {
	TaskSetDir string `json:"taskSetDir"`
	TraceDir   string `json:"traceDir"`
	ResultDir  string `json:"resultDir"`
}

type Config struct {
	Simulation SimulationConfig `json:"simulation"`
	Scheduling SchedulingConfig `json:"scheduling"`
	Tasks      TaskGenConfig    `json:"tasks"`
	Log        LogConfig        `json:"log"`
	Output     OutputConfig     `json:"output"`
}

func DefaultConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			Duration:                     40,
			OverrunProbabilityPercentage: 0,
			ExecTimeMode:                 EXEC_LEVEL,
			Seed:                         1,
		},
		Scheduling: SchedulingConfig{
			OverrunWatching:    PER_CLOCK,
			Traditional:        false,
			WorkPerTick:        0.1,
			Frequency:          10,
			InitialSystemLevel: LO,
		},
		Tasks: TaskGenConfig{
			N:         4,
			U:         0.8,
			CF:        4,
			CP:        0.44,
			MinPeriod: 5,
			MaxPeriod: 20,
		},
		Log: LogConfig{
			Enabled: true,
			Level:   "info",
			Settings: LogSettings{
				Utilization:  true,
				Feasibility:  true,
				Arrival:      true,
				Preemption:   true,
				Overrun:      true,
				JobFinish:    true,
				DeadlineMiss: true,
				Dispatch:     true,
				Failure:      true,
				Schedule:     true,
				ReadyQueue:   true,
				Clock:        false,
			},
		},
		Output: OutputConfig{
			TaskSetDir: "out/tasksets",
			TraceDir:   "out/traces",
			ResultDir:  "out/results",
		},
	}
}

// LoadConfig reads a JSON config on top of the defaults and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v: %v", ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}

func illegal(field string) error {
	return fmt.Errorf("%w: %v", ErrInvalidConfig, field)
}

func (c Config) Validate() error {
	if err := c.Simulation.validate(); err != nil {
		return err
	}
	if err := c.Scheduling.validate(); err != nil {
		return err
	}
	if err := c.Tasks.validate(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return illegal("log.level")
	}
	return nil
}

func (sc SimulationConfig) validate() error {
	if sc.Duration < 0 {
		return illegal("simulation.duration")
	}
	if sc.OverrunProbabilityPercentage < 0 || sc.OverrunProbabilityPercentage > 100 {
		return illegal("simulation.overrunProbabilityPercentage")
	}
	switch sc.ExecTimeMode {
	case EXEC_LO, EXEC_HI, EXEC_LEVEL, EXEC_RANDOM:
	default:
		return illegal("simulation.execTimeMode")
	}
	return nil
}

func (sc SchedulingConfig) validate() error {
	if sc.WorkPerTick <= 0 {
		return illegal("scheduling.workDonePerClock")
	}
	if sc.Frequency <= 0 {
		return illegal("scheduling.frequency")
	}
	if sc.OverrunWatching != PER_CLOCK && sc.OverrunWatching != PER_EXECUTION {
		return illegal("scheduling.overrunWatchingMechanism")
	}
	if sc.ExactOverrunTime.OrElse(0) < 0 {
		return illegal("scheduling.exactOverrunTime")
	}
	if sc.InitialSystemLevel != LO && sc.InitialSystemLevel != HI {
		return illegal("scheduling.initialSystemLevel")
	}
	return nil
}

func (tc TaskGenConfig) validate() error {
	switch {
	case tc.N <= 0:
		return illegal("tasks.n")
	case !(tc.CP > 0 && tc.CP < 1):
		return illegal("tasks.CP")
	case !(tc.CF > 1):
		return illegal("tasks.CF")
	case !(tc.U > 0):
		return illegal("tasks.u")
	case tc.MinPeriod <= 0:
		return illegal("tasks.minPeriod")
	case tc.MaxPeriod < tc.MinPeriod:
		return illegal("tasks.maxPeriod")
	}
	return nil
}
