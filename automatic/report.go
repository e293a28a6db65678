package automatic

import (
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tilecrush/stats"
)

const histogramBins = 10

// Summary is the YAML form of a stats.Summary.
type Summary struct {
	N     int     `yaml:"n"`
	Mean  float64 `yaml:"mean"`
	Stdev float64 `yaml:"stdev"`
	Min   float64 `yaml:"min"`
	P50   float64 `yaml:"p50"`
	Max   float64 `yaml:"max"`
}

// Report summarizes a finished run.
type Report struct {
	RunID   string             `yaml:"run_id"`
	Threads int                `yaml:"threads"`
	Games   int                `yaml:"games"`
	Stuck   int                `yaml:"stuck"`
	Elapsed time.Duration      `yaml:"elapsed"`
	Stats   map[string]Summary `yaml:"stats"`

	Results []GameResult `yaml:"results,omitempty"`

	summaries map[string]*stats.Summary
}

var reportFields = []struct {
	name string
	get  func(GameResult) int
}{
	{"moves", func(r GameResult) int { return r.Moves }},
	{"cleared", func(r GameResult) int { return r.Cleared }},
	{"specials_created", func(r GameResult) int { return r.SpecialsCreated }},
	{"effects", func(r GameResult) int { return r.Effects }},
	{"max_cascade", func(r GameResult) int { return r.MaxCascade }},
	{"repeats", func(r GameResult) int { return r.Repeats }},
}

func NewReport(runID string, threads int, results []GameResult) *Report {
	rep := &Report{
		RunID:     runID,
		Threads:   threads,
		Games:     len(results),
		Stats:     map[string]Summary{},
		Results:   results,
		summaries: map[string]*stats.Summary{},
	}
	for _, f := range reportFields {
		s := stats.NewSummary(f.name)
		for _, r := range results {
			s.Push(float64(f.get(r)))
		}
		rep.summaries[f.name] = s
		rep.Stats[f.name] = Summary{
			N: s.N(), Mean: s.Mean(), Stdev: s.Stdev(),
			Min: s.Min(), P50: s.Quantile(0.5), Max: s.Max(),
		}
	}
	for _, r := range results {
		if r.Stuck {
			rep.Stuck++
		}
	}
	return rep
}

// Summary returns the full statistic for one of the report fields.
func (r *Report) Summary(name string) (*stats.Summary, bool) {
	s, ok := r.summaries[name]
	return s, ok
}

// WriteYAML writes the report, without per-game results unless full.
func (r *Report) WriteYAML(w io.Writer, full bool) error {
	out := *r
	if !full {
		out.Results = nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}

// Histogram prints the distribution of one report field.
func (r *Report) Histogram(w io.Writer, name string) error {
	s, ok := r.summaries[name]
	if !ok {
		return fmt.Errorf("no statistic named %q", name)
	}
	if s.N() == 0 {
		_, err := fmt.Fprintf(w, "%s: no games\n", name)
		return err
	}
	fmt.Fprintf(w, "%s\n", s)
	if s.Min() == s.Max() {
		// every game had the same value
		_, err := fmt.Fprintf(w, "%g: %d\n", s.Min(), s.N())
		return err
	}
	h := histogram.Hist(histogramBins, s.Values())
	return histogram.Fprint(w, h, histogram.Linear(40))
}
