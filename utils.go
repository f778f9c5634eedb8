package mcsched

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	WORK_PRECISION     = 5 // decimals kept on executed work and elapsed clock time
	DEADLINE_PRECISION = 1 // decimals kept on virtual deadlines and sampled exec times

	// below this two work or time values are considered equal
	EPSILON = 0.000001
)

// integer time unit
type Ttick int

// fractional time or work units
type Tftick float64

func (f Tftick) String() string {
	return fmt.Sprintf("%.3fT", f)
}

func round(f Tftick, prec int) Tftick {
	return Tftick(scalar.Round(float64(f), prec))
}

func feq(a, b Tftick) bool {
	return scalar.EqualWithinAbs(float64(a), float64(b), EPSILON)
}

// a strictly greater than b, beyond EPSILON
func fgt(a, b Tftick) bool {
	return float64(a)-float64(b) > EPSILON
}

func fgeq(a, b Tftick) bool {
	return fgt(a, b) || feq(a, b)
}

type Number interface {
	constraints.Integer | constraints.Float
}

func maxOf[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func filterJobs(jobs []*Job, keep func(j *Job) bool) []*Job {
	res := make([]*Job, 0)
	for _, j := range jobs {
		if keep(j) {
			res = append(res, j)
		}
	}
	return res
}

func jobIds(jobs []*Job) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID()
	}
	return ids
}
