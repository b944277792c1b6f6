// Package montecarlo projects portfolio value forward with a geometric
// random-walk model. Paths are independent and fan out across a worker pool;
// the random source is injected and seedable so runs are reproducible.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/stats"
)

// MinSimulations rejects path counts too small to be statistically
// meaningful.
const MinSimulations = 100

// DefaultSimulations is the documented default path count.
const DefaultSimulations = 1000

// DefaultHorizonDays is the documented default projection horizon.
const DefaultHorizonDays = 30

// tradingDaysPerYear converts annual drift and volatility to daily terms.
const tradingDaysPerYear = 252

// seedIncrement spreads per-path seeds across the generator state space
// (golden-ratio increment, as in splitmix64).
const seedIncrement uint64 = 0x9E3779B97F4A7C15

// NormalSource yields standard-normal draws. *math/rand.Rand satisfies it
// with its ziggurat-based NormFloat64.
type NormalSource interface {
	NormFloat64() float64
}

// SourceFactory builds an independent NormalSource for one path seed.
type SourceFactory func(seed int64) NormalSource

// Params configures one simulation run. Simulations and HorizonDays take
// their documented defaults when zero.
type Params struct {
	InitialValue     float64 // starting portfolio value, > 0
	AnnualReturn     float64 // expected annual return, e.g. 0.15
	AnnualVolatility float64 // annual volatility, >= 0
	HorizonDays      int     // projection horizon; default 30
	Simulations      int     // path count; default 1000, minimum 100
	Seed             int64   // base seed; identical seeds reproduce results
	Workers          int     // parallelism; defaults to GOMAXPROCS
}

// Simulator runs Monte Carlo projections. Safe for concurrent use; each run
// derives its state from the per-call seed.
type Simulator struct {
	newSource SourceFactory
}

// New creates a simulator backed by math/rand's ziggurat normal sampler.
func New() *Simulator {
	return NewWithSource(func(seed int64) NormalSource {
		return rand.New(rand.NewSource(seed))
	})
}

// NewWithSource creates a simulator with a custom random source factory.
func NewWithSource(factory SourceFactory) *Simulator {
	return &Simulator{newSource: factory}
}

// Run simulates the configured number of independent paths and reports the
// final-value distribution. Every path i uses its own source seeded from
// (Seed, i), so results are identical across runs and worker counts.
func (s *Simulator) Run(ctx context.Context, params Params) (*domain.SimulationResult, error) {
	if params.Simulations == 0 {
		params.Simulations = DefaultSimulations
	}
	if params.HorizonDays == 0 {
		params.HorizonDays = DefaultHorizonDays
	}

	if params.InitialValue <= 0 {
		return nil, domain.InvalidParameterError("initialValue", "must be > 0")
	}
	if params.AnnualVolatility < 0 {
		return nil, domain.InvalidParameterError("volatility", "must be >= 0")
	}
	if params.HorizonDays < 1 {
		return nil, domain.InvalidParameterError("days", "must be >= 1")
	}
	if params.Simulations < MinSimulations {
		return nil, domain.InvalidParameterError("simulations",
			fmt.Sprintf("%d paths is below the statistical minimum of %d", params.Simulations, MinSimulations))
	}

	workers := params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > params.Simulations {
		workers = params.Simulations
	}

	dailyDrift := params.AnnualReturn / tradingDaysPerYear
	dailyVol := params.AnnualVolatility / math.Sqrt(tradingDaysPerYear)

	// Map phase: each worker owns a disjoint range of path indices and
	// writes into its own slice region. No shared mutable state.
	finals := make([]float64, params.Simulations)
	var wg sync.WaitGroup
	chunk := (params.Simulations + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > params.Simulations {
			end = params.Simulations
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				src := s.newSource(pathSeed(params.Seed, i))
				finals[i] = simulatePath(src, params.InitialValue, dailyDrift, dailyVol, params.HorizonDays)
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Reduce phase: sort and read off the distribution.
	sort.Float64s(finals)

	profitable := 0
	for _, v := range finals {
		if v > params.InitialValue {
			profitable++
		}
	}

	return &domain.SimulationResult{
		Simulations:  params.Simulations,
		HorizonDays:  params.HorizonDays,
		InitialValue: params.InitialValue,

		Min:    finals[0],
		P5:     stats.Percentile(finals, 0.05),
		P25:    stats.Percentile(finals, 0.25),
		Median: stats.Percentile(finals, 0.50),
		P75:    stats.Percentile(finals, 0.75),
		P95:    stats.Percentile(finals, 0.95),
		Max:    finals[len(finals)-1],

		ExpectedValue:       stats.Mean(finals),
		ProbabilityOfProfit: float64(profitable) / float64(params.Simulations),
	}, nil
}

// pathSeed derives the deterministic seed for path i.
func pathSeed(base int64, i int) int64 {
	return base + int64(uint64(i+1)*seedIncrement)
}

// simulatePath walks one value path: value *= 1 + drift + vol*Z per day.
// Value is floored at zero; a bust stays busted.
func simulatePath(src NormalSource, value, dailyDrift, dailyVol float64, days int) float64 {
	for d := 0; d < days; d++ {
		value *= 1 + dailyDrift + dailyVol*src.NormFloat64()
		if value <= 0 {
			return 0
		}
	}
	return value
}
