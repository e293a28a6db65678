// Package stats summarizes the per-game numbers collected by autoplay.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Summary keeps every sample pushed to it, so quantiles are exact.
type Summary struct {
	Name   string
	vals   []float64
	sorted bool
}

func NewSummary(name string) *Summary {
	return &Summary{Name: name}
}

func (s *Summary) Push(val float64) {
	s.vals = append(s.vals, val)
	s.sorted = false
}

func (s *Summary) N() int {
	return len(s.vals)
}

func (s *Summary) Mean() float64 {
	if len(s.vals) == 0 {
		return 0
	}
	return stat.Mean(s.vals, nil)
}

// Stdev is the sample standard deviation; zero with fewer than two
// samples.
func (s *Summary) Stdev() float64 {
	if len(s.vals) < 2 {
		return 0
	}
	_, sd := stat.MeanStdDev(s.vals, nil)
	return sd
}

func (s *Summary) StandardError() float64 {
	if len(s.vals) == 0 {
		return 0
	}
	return s.Stdev() / math.Sqrt(float64(len(s.vals)))
}

func (s *Summary) Min() float64 {
	return lo.Min(s.vals)
}

func (s *Summary) Max() float64 {
	return lo.Max(s.vals)
}

// Quantile returns the empirical p-quantile, p in [0, 1].
func (s *Summary) Quantile(p float64) float64 {
	if len(s.vals) == 0 {
		return 0
	}
	if !s.sorted {
		sort.Float64s(s.vals)
		s.sorted = true
	}
	return stat.Quantile(p, stat.Empirical, s.vals, nil)
}

// ConfidenceInterval returns the bounds of the pct% confidence interval
// of the mean.
func (s *Summary) ConfidenceInterval(pct float64) (float64, float64) {
	m := s.Mean()
	d := ZVal(pct) * s.StandardError()
	return m - d, m + d
}

// Values returns the samples pushed so far. The slice may be reordered by
// Quantile.
func (s *Summary) Values() []float64 {
	return s.vals
}

func (s *Summary) String() string {
	low, high := s.ConfidenceInterval(95)
	return fmt.Sprintf("%s: n=%d mean=%.3f stdev=%.3f min=%g p50=%g max=%g 95%%ci=[%.3f, %.3f]",
		s.Name, s.N(), s.Mean(), s.Stdev(), s.Min(), s.Quantile(0.5), s.Max(), low, high)
}
