package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/chemotaxis/config"
	"github.com/pthm-cable/chemotaxis/game"
	"github.com/pthm-cable/chemotaxis/telemetry"
)

// uniformMeanDistance is the mean toroidal distance from a fixed point to a
// uniformly random point in a unit square torus.
const uniformMeanDistance = 0.3826

// FitnessEvaluator runs headless simulations and scores gathering.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu         sync.Mutex
	lastSpread float64 // std of per-seed fitness from the latest Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastSpread returns the across-seed standard deviation of the latest evaluation.
func (fe *FitnessEvaluator) LastSpread() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSpread
}

// Evaluate computes fitness for a parameter vector (lower = better): the mean
// distance to the droplet over the second half of the run, as a fraction of
// what a uniformly scattered population would show.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.computeFitness(fe.runSimulation(x, s))
		}(i, seed)
	}
	wg.Wait()

	mean, std := stat.MeanStdDev(results, nil)
	if len(results) < 2 {
		std = 0
	}

	fe.mu.Lock()
	fe.lastSpread = std
	fe.mu.Unlock()

	return mean
}

// runSimulation executes one headless run with the droplet placed at start
// and returns its telemetry windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		slog.Error("failed to create game", "seed", seed, "error", err)
		return nil
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig returns an independent copy of the base config for one run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Source.PlaceOnStart = true
	// Seeds already run concurrently
	cfg.Parallel.Threshold = 0
	return &cfg
}

// computeFitness scores the second half of a run's windows.
func (fe *FitnessEvaluator) computeFitness(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return math.Inf(1)
	}
	late := windows[len(windows)/2:]

	dists := make([]float64, 0, len(late))
	for _, w := range late {
		if w.HasSource {
			dists = append(dists, w.DistanceMean)
		}
	}
	if len(dists) == 0 {
		return math.Inf(1)
	}
	return stat.Mean(dists, nil) / (fe.baseConfig.World.Size * uniformMeanDistance)
}
