package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/resemblance/config"
	"github.com/pthm-cable/resemblance/game"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

// failedFitness is returned when a parameter vector cannot be played at all.
const failedFitness = 1e9

// FitnessEvaluator plays headless sessions with the greedy bot and scores
// how far the mean run length lands from the target.
type FitnessEvaluator struct {
	params         *ParamVector
	baseConfig     *config.Config
	seeds          []int64
	runs           int // runs per seed
	maxGenerations int
	target         float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastMean       float64 // mean generations from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, runs, maxGenerations int, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		baseConfig:     baseCfg,
		seeds:          seeds,
		runs:           runs,
		maxGenerations: maxGenerations,
		target:         target,
		bestFitness:    math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastMean returns the mean run length from the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	aggregate  telemetry.Aggregate
	hallOfFame *telemetry.HallOfFame
	err        error
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the squared distance between the mean run length and the target.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel; each game owns its RNG and lineup world
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSeed(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	var bestSeed *seedResult
	for i := range results {
		r := &results[i]
		if r.err != nil {
			slog.Warn("evaluation failed", "seed", fe.seeds[i], "error", r.err)
			return failedFitness
		}
		total += r.aggregate.MeanGenerations
		if bestSeed == nil || r.aggregate.BestGeneration > bestSeed.aggregate.BestGeneration {
			bestSeed = r
		}
	}

	mean := total / float64(len(fe.seeds))
	diff := mean - fe.target
	fitness := diff * diff

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		if bestSeed != nil {
			fe.bestHallOfFame = bestSeed.hallOfFame
		}
	}
	fe.lastMean = mean
	fe.mu.Unlock()

	return fitness
}

// runSeed plays fe.runs runs on a fresh game.
func (fe *FitnessEvaluator) runSeed(cfg *config.Config, seed int64) seedResult {
	g, err := game.NewGameWithOptions(game.Options{
		Seed:       seed,
		Config:     cfg,
		PlayerName: "greedy",
	})
	if err != nil {
		return seedResult{err: err}
	}
	defer g.Close()

	player := game.Greedy{Score: systems.Scorer{IncludeShrink: cfg.Similarity.IncludeShrink}.Score}
	for i := 0; i < fe.runs; i++ {
		if _, err := game.PlayRun(g, player, fe.maxGenerations); err != nil {
			return seedResult{err: err}
		}
	}

	return seedResult{
		aggregate:  g.Collector().Aggregate(),
		hallOfFame: g.HallOfFame(),
	}
}

// copyConfig returns a copy of the base config safe to tune. Tuned fields
// are scalars, so the pool and decay slices can stay shared.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
