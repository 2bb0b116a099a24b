package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Aggregate summarises a batch of finished runs.
type Aggregate struct {
	Runs              int     `csv:"runs"`
	MeanGenerations   float64 `csv:"mean_generations"`
	StdGenerations    float64 `csv:"std_generations"`
	MedianGenerations float64 `csv:"median_generations"`
	P90Generations    float64 `csv:"p90_generations"`
	BestGeneration    int     `csv:"best_generation"`
	MeanScore         float64 `csv:"mean_score"`
}

// Collector accumulates finished runs.
type Collector struct {
	generations []float64
	meanScores  []float64
	best        int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRun adds a finished run.
func (c *Collector) RecordRun(s RunSummary) {
	c.generations = append(c.generations, float64(s.Generation))
	c.meanScores = append(c.meanScores, s.MeanScore)
	if s.Generation > c.best {
		c.best = s.Generation
	}
}

// Runs returns the number of recorded runs.
func (c *Collector) Runs() int {
	return len(c.generations)
}

// Aggregate computes the summary over all recorded runs.
// Returns the zero Aggregate if nothing was recorded.
func (c *Collector) Aggregate() Aggregate {
	n := len(c.generations)
	if n == 0 {
		return Aggregate{}
	}

	sorted := make([]float64, n)
	copy(sorted, c.generations)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(c.generations, nil)
	if n < 2 {
		std = 0
	}

	return Aggregate{
		Runs:              n,
		MeanGenerations:   mean,
		StdGenerations:    std,
		MedianGenerations: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90Generations:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		BestGeneration:    c.best,
		MeanScore:         stat.Mean(c.meanScores, nil),
	}
}

// Reset clears all recorded runs.
func (c *Collector) Reset() {
	c.generations = c.generations[:0]
	c.meanScores = c.meanScores[:0]
	c.best = 0
}

// LogStats logs the aggregate using slog.
func (a Aggregate) LogStats() {
	slog.Info("aggregate",
		"runs", a.Runs,
		"mean_generations", a.MeanGenerations,
		"std_generations", a.StdGenerations,
		"median_generations", a.MedianGenerations,
		"p90_generations", a.P90Generations,
		"best_generation", a.BestGeneration,
		"mean_score", a.MeanScore,
	)
}
