package mcsched

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const MAX_GENERATION_TRIES = 50000

var ErrTaskSetGeneration = errors.New("not able to generate a feasible task set")

// TaskSetGenerator builds random implicit-deadline task sets: UUniFast
// utilizations, log-uniform periods and floor(n*CP) HI tasks whose C(HI) is
// C(LO) scaled by the criticality factor, capped at the period.
type TaskSetGenerator struct {
	cfg TaskGenConfig
	src rand.Source
	rnd *rand.Rand
}

func NewTaskSetGenerator(cfg TaskGenConfig, seed uint64) *TaskSetGenerator {
	src := rand.NewSource(seed)
	return &TaskSetGenerator{cfg: cfg, src: src, rnd: rand.New(src)}
}

func (g *TaskSetGenerator) ID() string {
	c := g.cfg
	return fmt.Sprintf("%v-%v-%v-%v-[%v-%v]", c.N, c.U, c.CF, c.CP, c.MinPeriod, c.MaxPeriod)
}

func (g *TaskSetGenerator) uunifast() []float64 {
	n := g.cfg.N
	us := make([]float64, n)
	sum := g.cfg.U
	for i := 1; i < n; i++ {
		next := sum * math.Pow(g.rnd.Float64(), 1/float64(n-i))
		us[i-1] = sum - next
		sum = next
	}
	us[n-1] = sum
	return us
}

func (g *TaskSetGenerator) logUniformPeriods() []Ttick {
	lu := distuv.Uniform{
		Min: math.Log(float64(g.cfg.MinPeriod)),
		Max: math.Log(float64(g.cfg.MaxPeriod)),
		Src: g.src,
	}
	ps := make([]Ttick, g.cfg.N)
	for i := range ps {
		ps[i] = Ttick(math.Round(math.Exp(lu.Rand())))
	}
	return ps
}

func (g *TaskSetGenerator) hiIndexes() map[int]bool {
	k := int(math.Floor(float64(g.cfg.N) * g.cfg.CP))
	his := make(map[int]bool, k)
	for _, i := range g.rnd.Perm(g.cfg.N)[:k] {
		his[i] = true
	}
	return his
}

// C(HI) never goes past the period
func feasibleWCET(clo Tftick, cf float64, period Ttick) Tftick {
	if clo > 0 && cf > float64(period)/float64(clo) {
		cf = float64(period) / float64(clo)
	}
	return round(clo*Tftick(cf), DEADLINE_PRECISION)
}

func (g *TaskSetGenerator) candidate(his map[int]bool) []TaskSpec {
	us := g.uunifast()
	ps := g.logUniformPeriods()
	tasks := make([]TaskSpec, g.cfg.N)
	for i := range tasks {
		clo := round(Tftick(us[i]*float64(ps[i])), DEADLINE_PRECISION)
		level := LO
		if his[i] {
			level = HI
		}
		tasks[i] = TaskSpec{
			ID:     strconv.Itoa(i + 1),
			Period: ps[i],
			Level:  level,
			C:      ExecutionTime{LO: clo, HI: feasibleWCET(clo, g.cfg.CF, ps[i])},
		}
	}
	return tasks
}

func feasibleTasks(tasks []TaskSpec) bool {
	for _, t := range tasks {
		if t.Period <= 0 || t.C.LO <= 0 || t.C.HI <= 0 || t.C.LO > Tftick(t.Period) || t.C.HI > Tftick(t.Period) {
			return false
		}
	}
	return true
}

// Generate draws candidates until every task fits its period.
func (g *TaskSetGenerator) Generate() (TaskSet, error) {
	his := g.hiIndexes()
	for try := 0; try < MAX_GENERATION_TRIES; try++ {
		tasks := g.candidate(his)
		if feasibleTasks(tasks) {
			return TaskSet{ID: g.ID(), Tasks: tasks}, nil
		}
	}
	return TaskSet{}, fmt.Errorf("%w after %v tries (%v)", ErrTaskSetGeneration, MAX_GENERATION_TRIES, g.ID())
}

func LoadTaskSet(path string) (TaskSet, error) {
	var ts TaskSet
	b, err := os.ReadFile(path)
	if err != nil {
		return ts, err
	}
	if err := json.Unmarshal(b, &ts); err != nil {
		return ts, fmt.Errorf("%w: %v: %v", ErrInvalidTaskSet, path, err)
	}
	return ts, ts.Validate()
}

func SaveTaskSet(path string, ts TaskSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadOrGenerate returns the task set saved under the generator's id in dir,
// generating and saving a new one when there is none. The bool is true when
// the set was generated.
func (g *TaskSetGenerator) LoadOrGenerate(dir string) (TaskSet, bool, error) {
	path := filepath.Join(dir, g.ID()+".json")
	ts, err := LoadTaskSet(path)
	if err == nil && ts.ID == g.ID() {
		return ts, false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ts, false, err
	}
	ts, err = g.Generate()
	if err != nil {
		return ts, false, err
	}
	return ts, true, SaveTaskSet(path, ts)
}
