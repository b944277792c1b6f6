package risk

import (
	"math"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/stats"
)

// TradingDaysPerYear is the annualization base for daily return series.
const TradingDaysPerYear = 252

// EstimatedVolatilityPolicy supplies fallback figures when observed history
// is unavailable. The fallback is an explicit policy: every asset priced
// through it is labeled ESTIMATED in the report, never silently blended in.
type EstimatedVolatilityPolicy struct {
	// DefaultAnnualVolatility is assumed for assets with no usable return
	// history.
	DefaultAnnualVolatility float64

	// DefaultCorrelation is assumed for holding pairs absent from the
	// portfolio's correlation matrix.
	DefaultCorrelation float64
}

// DefaultEstimationPolicy reflects broad crypto-market behavior: high
// standalone volatility and strong co-movement across assets.
var DefaultEstimationPolicy = EstimatedVolatilityPolicy{
	DefaultAnnualVolatility: 0.80,
	DefaultCorrelation:      0.50,
}

// assetVolatility resolves one holding's annualized volatility. Observed
// history wins; the policy estimate is the explicit fallback.
func (p EstimatedVolatilityPolicy) assetVolatility(symbol string, history map[string][]float64) domain.AssetVolatility {
	// Observed history always wins, even a zero-volatility one: constant
	// returns are real data and must surface as volatility 0 so ratio
	// computations hit the division guard instead of silently estimating.
	returns := history[symbol]
	if len(returns) >= 2 {
		daily := stats.StdDev(returns)
		return domain.AssetVolatility{
			Symbol:     symbol,
			Volatility: daily * math.Sqrt(TradingDaysPerYear),
			Source:     domain.VolatilityObserved,
		}
	}
	return domain.AssetVolatility{
		Symbol:     symbol,
		Volatility: p.DefaultAnnualVolatility,
		Source:     domain.VolatilityEstimated,
	}
}

// portfolioVolatility combines per-asset volatilities through the pairwise
// correlation structure: variance = sum_i sum_j w_i w_j sigma_i sigma_j rho_ij.
func portfolioVolatility(weights []float64, vols []domain.AssetVolatility, symbols []string, matrix domain.CorrelationMatrix, defaultRho float64) float64 {
	variance := 0.0
	for i := range weights {
		for j := range weights {
			rho := defaultRho
			if i == j {
				rho = 1
			} else if matrix != nil {
				if v, ok := matrix.At(symbols[i], symbols[j]); ok {
					rho = v
				}
			}
			variance += weights[i] * weights[j] * vols[i].Volatility * vols[j].Volatility * rho
		}
	}
	if variance < 0 {
		// Inconsistent correlation inputs can push the quadratic form below
		// zero; clamp rather than propagate a NaN from Sqrt.
		variance = 0
	}
	return math.Sqrt(variance)
}
