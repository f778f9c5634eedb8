package mcsched

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogCategory string

const (
	UTILIZATION   LogCategory = "utilization"
	FEASIBILITY   LogCategory = "feasibility"
	ARRIVAL       LogCategory = "arrival"
	PREEMPTION    LogCategory = "preemption"
	OVERRUN_LOG   LogCategory = "overrun"
	JOB_FINISH    LogCategory = "jobFinish"
	DEADLINE_MISS LogCategory = "deadlineMiss"
	DISPATCH      LogCategory = "dispatch"
	FAILURE       LogCategory = "failure"
	SCHEDULE      LogCategory = "schedule"
	READY_QUEUE   LogCategory = "readyQueue"
	CLOCK         LogCategory = "clock"
)

// Logger is the event sink that writes the run as structured log records,
// one category per kind of event.
type Logger struct {
	log     *logrus.Logger
	enabled bool
	on      map[LogCategory]bool
}

func NewLogger(cfg LogConfig, out io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
		l.SetLevel(lvl)
	}
	s := cfg.Settings
	return &Logger{
		log:     l,
		enabled: cfg.Enabled,
		on: map[LogCategory]bool{
			UTILIZATION:   s.Utilization,
			FEASIBILITY:   s.Feasibility,
			ARRIVAL:       s.Arrival,
			PREEMPTION:    s.Preemption,
			OVERRUN_LOG:   s.Overrun,
			JOB_FINISH:    s.JobFinish,
			DEADLINE_MISS: s.DeadlineMiss,
			DISPATCH:      s.Dispatch,
			FAILURE:       s.Failure,
			SCHEDULE:      s.Schedule,
			READY_QUEUE:   s.ReadyQueue,
			CLOCK:         s.Clock,
		},
	}
}

// Logrus exposes the underlying logger, for callers that log outside a run.
func (l *Logger) Logrus() *logrus.Logger {
	return l.log
}

func (l *Logger) logWrite(category LogCategory, level logrus.Level, fields logrus.Fields, msg string) {
	if !l.enabled || !l.on[category] {
		return
	}
	l.log.WithField("category", string(category)).WithFields(fields).Log(level, msg)
}

func (l *Logger) Utilization(a Analysis) {
	l.logWrite(UTILIZATION, logrus.InfoLevel, logrus.Fields{
		"U11":   a.U11,
		"U12":   a.U12,
		"U21":   a.U21,
		"U22":   a.U22,
		"u":     a.U,
		"speed": a.Speed,
	}, "utilization")
}

func (l *Logger) FeasibilityTest(feasible bool, policy Policy) {
	lvl := logrus.InfoLevel
	if !feasible {
		lvl = logrus.WarnLevel
	}
	l.logWrite(FEASIBILITY, lvl, logrus.Fields{"feasible": feasible, "policy": policy.String()}, "feasibility test")
}

func (l *Logger) Arrival(at Ttick, j *Job, ignored bool) {
	l.logWrite(ARRIVAL, logrus.InfoLevel, logrus.Fields{
		"t":        at,
		"job":      j.ID(),
		"level":    j.Level().String(),
		"deadline": float64(j.Deadline()),
		"ignored":  ignored,
	}, "job arrived")
}

func (l *Logger) ReadyQueue(at Ttick, jobs []*Job) {
	l.logWrite(READY_QUEUE, logrus.DebugLevel, logrus.Fields{
		"t":   at,
		"q":   strings.Join(jobIds(jobs), " "),
		"len": len(jobs),
	}, "ready queue")
}

func (l *Logger) Preemption(at Tftick, preempter *Job, preempted *Job) {
	l.logWrite(PREEMPTION, logrus.InfoLevel, logrus.Fields{
		"t":         float64(at),
		"preempter": preempter.ID(),
		"preempted": preempted.ID(),
		"remaining": float64(preempted.RemainingExecutionTime()),
	}, "preemption")
}

func (l *Logger) Overrun(at Tftick, jobs []*Job, reason ModeChangeReason) {
	l.logWrite(OVERRUN_LOG, logrus.WarnLevel, logrus.Fields{
		"t":      float64(at),
		"jobs":   strings.Join(jobIds(jobs), " "),
		"reason": reason.String(),
	}, "mode change to HI")
}

func (l *Logger) JobFinish(at Tftick, j *Job) {
	rt, _ := j.ResponseTime()
	l.logWrite(JOB_FINISH, logrus.InfoLevel, logrus.Fields{
		"t":        float64(at),
		"job":      j.ID(),
		"executed": float64(j.ExecutedTime()),
		"response": float64(rt),
	}, "job finished")
}

func (l *Logger) DeadlineMiss(at Tftick, jobs []*Job) {
	l.logWrite(DEADLINE_MISS, logrus.WarnLevel, logrus.Fields{
		"t":    float64(at),
		"jobs": strings.Join(jobIds(jobs), " "),
	}, "deadline miss")
}

func (l *Logger) Dispatch(at Tftick, j *Job) {
	id := IDLE
	if j != nil {
		id = j.ID()
	}
	l.logWrite(DISPATCH, logrus.DebugLevel, logrus.Fields{"t": float64(at), "job": id}, "dispatch")
}

func (l *Logger) Clock(clock int, start Tftick, end Tftick, j *Job) {
	id := IDLE
	if j != nil {
		id = j.ID()
	}
	l.logWrite(CLOCK, logrus.TraceLevel, logrus.Fields{
		"clock": clock,
		"from":  float64(start),
		"to":    float64(end),
		"job":   id,
	}, "tick")
}

func (l *Logger) Failure(at Tftick, jobs []*Job) {
	l.logWrite(FAILURE, logrus.ErrorLevel, logrus.Fields{
		"t":    float64(at),
		"jobs": strings.Join(jobIds(jobs), " "),
	}, "schedule failed")
}

func (l *Logger) Schedule(s *Schedule) {
	l.logWrite(SCHEDULE, logrus.InfoLevel, logrus.Fields{
		"entries": len(s.Entries()),
		"digest":  fmt.Sprintf("%016x", s.Digest()),
	}, "schedule")
}

func (l *Logger) Save(res *Result) {
	fields := logrus.Fields{"outcome": res.Outcome.String(), "at": float64(res.At)}
	if res.ModeChange != nil {
		fields["modeChange"] = float64(res.ModeChange.At)
	}
	l.logWrite(SCHEDULE, logrus.InfoLevel, fields, "run done")
}
