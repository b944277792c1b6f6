package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-quant-lab/internal/domain"
)

func TestRun_DeterministicUnderFixedSeed(t *testing.T) {
	params := Params{
		InitialValue:     10000,
		AnnualReturn:     0.20,
		AnnualVolatility: 0.60,
		HorizonDays:      30,
		Simulations:      500,
		Seed:             42,
	}

	sim := New()
	first, err := sim.Run(context.Background(), params)
	require.NoError(t, err)
	second, err := sim.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	base := Params{
		InitialValue:     10000,
		AnnualReturn:     0.10,
		AnnualVolatility: 0.50,
		HorizonDays:      20,
		Simulations:      300,
		Seed:             7,
	}

	sim := New()
	serial := base
	serial.Workers = 1
	parallel := base
	parallel.Workers = 8

	a, err := sim.Run(context.Background(), serial)
	require.NoError(t, err)
	b, err := sim.Run(context.Background(), parallel)
	require.NoError(t, err)

	// Per-path seeding makes results independent of scheduling.
	assert.Equal(t, a, b)
}

func TestRun_ProbabilityOfProfitMonotonicInExpectedReturn(t *testing.T) {
	sim := New()

	// Property: holding volatility, horizon, and seed fixed, a higher
	// expected return never lowers the probability of profit.
	for _, seed := range []int64{1, 99, 1234, 777777} {
		prev := -1.0
		for _, annualReturn := range []float64{-0.50, -0.20, 0, 0.20, 0.50, 1.00} {
			result, err := sim.Run(context.Background(), Params{
				InitialValue:     10000,
				AnnualReturn:     annualReturn,
				AnnualVolatility: 0.40,
				HorizonDays:      30,
				Simulations:      2000,
				Seed:             seed,
			})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.ProbabilityOfProfit, prev,
				"seed %d, return %.2f", seed, annualReturn)
			prev = result.ProbabilityOfProfit
		}
	}
}

func TestRun_PercentilesAreOrdered(t *testing.T) {
	sim := New()
	result, err := sim.Run(context.Background(), Params{
		InitialValue:     10000,
		AnnualReturn:     0.15,
		AnnualVolatility: 0.80,
		HorizonDays:      60,
		Simulations:      1000,
		Seed:             3,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Min, result.P5)
	assert.LessOrEqual(t, result.P5, result.P25)
	assert.LessOrEqual(t, result.P25, result.Median)
	assert.LessOrEqual(t, result.Median, result.P75)
	assert.LessOrEqual(t, result.P75, result.P95)
	assert.LessOrEqual(t, result.P95, result.Max)
	assert.GreaterOrEqual(t, result.ProbabilityOfProfit, 0.0)
	assert.LessOrEqual(t, result.ProbabilityOfProfit, 1.0)
}

func TestRun_ZeroVolatilityIsPureDrift(t *testing.T) {
	sim := New()
	result, err := sim.Run(context.Background(), Params{
		InitialValue:     10000,
		AnnualReturn:     0.252, // daily drift exactly 0.001
		AnnualVolatility: 0,
		HorizonDays:      10,
		Simulations:      100,
		Seed:             1,
	})
	require.NoError(t, err)

	// Every path is identical: value * (1.001)^10.
	expected := 10000.0
	for i := 0; i < 10; i++ {
		expected *= 1.001
	}
	assert.InDelta(t, expected, result.Min, 1e-6)
	assert.InDelta(t, expected, result.Max, 1e-6)
	assert.Equal(t, 1.0, result.ProbabilityOfProfit)
}

func TestRun_RejectsTooFewSimulations(t *testing.T) {
	sim := New()
	_, err := sim.Run(context.Background(), Params{
		InitialValue:     10000,
		AnnualVolatility: 0.5,
		HorizonDays:      30,
		Simulations:      99,
		Seed:             1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestRun_RejectsNonPositiveInitialValue(t *testing.T) {
	sim := New()
	_, err := sim.Run(context.Background(), Params{
		InitialValue: 0,
		HorizonDays:  30,
		Simulations:  100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestRun_DefaultsApplied(t *testing.T) {
	sim := New()
	result, err := sim.Run(context.Background(), Params{
		InitialValue:     10000,
		AnnualVolatility: 0.3,
		Seed:             11,
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultSimulations, result.Simulations)
	assert.Equal(t, DefaultHorizonDays, result.HorizonDays)
}

// fixedSource always returns the same draw; useful to pin path arithmetic.
type fixedSource struct{ z float64 }

func (f fixedSource) NormFloat64() float64 { return f.z }

func TestSimulatePath_FloorsAtZero(t *testing.T) {
	// A -200% daily shock busts the path immediately; it must stay at zero
	// instead of oscillating through negative values.
	final := simulatePath(fixedSource{z: -2}, 10000, 0, 1, 5)
	assert.Equal(t, 0.0, final)
}

func TestNewWithSource_InjectedSourceUsed(t *testing.T) {
	sim := NewWithSource(func(int64) NormalSource { return fixedSource{z: 0} })
	result, err := sim.Run(context.Background(), Params{
		InitialValue:     10000,
		AnnualReturn:     0,
		AnnualVolatility: 0.5,
		HorizonDays:      5,
		Simulations:      100,
	})
	require.NoError(t, err)

	// Zero draws and zero drift leave every path at the initial value.
	assert.Equal(t, 10000.0, result.Min)
	assert.Equal(t, 10000.0, result.Max)
	assert.Equal(t, 0.0, result.ProbabilityOfProfit)
}
