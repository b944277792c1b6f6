package risk

import (
	"fmt"
	"math"
	"sort"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/stats"
)

// Default optional-parameter values. Defaults apply only to optional
// parameters, never to invalid required ones.
const (
	DefaultConfidenceLevel = 0.95
	DefaultRiskFreeRate    = 0.05
)

// cvarTailExpansion approximates CVaR from parametric VaR when no return
// distribution is available. The historical tail mean is preferred whenever
// observed returns exist.
const cvarTailExpansion = 1.25

// zScores tabulates the one-sided normal quantiles for supported confidence
// levels. Unsupported levels are rejected, never silently defaulted.
var zScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.645,
	0.99: 2.33,
}

// Params configures one risk analysis. Zero-valued optional fields take the
// documented defaults.
type Params struct {
	// ConfidenceLevel for VaR/CVaR. Optional; defaults to 0.95. Must be one
	// of the tabulated levels when set.
	ConfidenceLevel float64

	// RiskFreeRate for Sharpe/Sortino. Optional; defaults to 0.05.
	RiskFreeRate float64

	// History maps symbol to its daily return series. Assets without history
	// fall back to the engine's estimation policy.
	History map[string][]float64
}

// Engine computes portfolio risk and diversification metrics. Pure over its
// inputs; safe for concurrent use.
type Engine struct {
	policy EstimatedVolatilityPolicy
}

// NewEngine creates a risk engine with the given estimation policy.
func NewEngine(policy EstimatedVolatilityPolicy) *Engine {
	return &Engine{policy: policy}
}

// Analyze produces a RiskReport for the portfolio. Preconditions are
// validated before anything is computed; a failed call leaves no partial
// results.
func (e *Engine) Analyze(portfolio *domain.Portfolio, params Params) (*domain.RiskReport, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}

	confidence := params.ConfidenceLevel
	if confidence == 0 {
		confidence = DefaultConfidenceLevel
	}
	z, ok := zScores[confidence]
	if !ok {
		return nil, domain.InvalidParameterError("confidenceLevel",
			fmt.Sprintf("unsupported level %g; supported: 0.90, 0.95, 0.99", confidence))
	}

	riskFree := params.RiskFreeRate
	if riskFree == 0 {
		riskFree = DefaultRiskFreeRate
	}

	weights, err := portfolio.Weights()
	if err != nil {
		return nil, err
	}
	totalValue := portfolio.TotalValue()

	symbols := make([]string, len(portfolio.Holdings))
	for i, h := range portfolio.Holdings {
		symbols[i] = h.Symbol
	}

	vols := make([]domain.AssetVolatility, len(symbols))
	estimated := false
	for i, sym := range symbols {
		vols[i] = e.policy.assetVolatility(sym, params.History)
		if vols[i].Source == domain.VolatilityEstimated {
			estimated = true
		}
	}

	volatility := portfolioVolatility(weights, vols, symbols, portfolio.Correlations, e.policy.DefaultCorrelation)

	valueAtRisk := totalValue * z * volatility

	portfolioReturns := weightedReturns(weights, symbols, params.History)
	cvar := valueAtRisk * cvarTailExpansion
	if len(portfolioReturns) >= 2 {
		if tail := tailMeanLoss(portfolioReturns, confidence); tail > 0 {
			cvar = tail * totalValue
		}
	}

	sharpe, sortino, err := rewardRatios(portfolioReturns, volatility, riskFree)
	if err != nil {
		return nil, err
	}

	maxDrawdown := drawdownFromReturns(portfolioReturns)

	h := herfindahl(weights)
	topShare := topHoldingsShare(weights)

	report := &domain.RiskReport{
		PortfolioValue: totalValue,

		Volatility: volatility,
		VaR95:      valueAtRisk,
		CVaR95:     cvar,

		SharpeRatio:  sharpe,
		SortinoRatio: sortino,
		MaxDrawdown:  maxDrawdown,

		HerfindahlIndex:      h,
		DiversificationScore: diversificationScore(h),
		ConcentrationLevel:   concentrationLevel(topShare),
		TopHoldingsShare:     topShare,

		CorrelatedPairs: correlatedPairs(symbols, portfolio.Correlations),

		AssetVolatilities: vols,
		Estimated:         estimated,
	}
	report.RiskScore = riskScore(report)

	return report, nil
}

// weightedReturns builds the portfolio daily return series as the weighted
// sum of per-asset returns, aligned on the shortest available tail. Returns
// nil when no asset has usable history.
func weightedReturns(weights []float64, symbols []string, history map[string][]float64) []float64 {
	minLen := 0
	for _, sym := range symbols {
		n := len(history[sym])
		if n < 2 {
			return nil
		}
		if minLen == 0 || n < minLen {
			minLen = n
		}
	}
	if minLen < 2 {
		return nil
	}

	combined := make([]float64, minLen)
	for i, sym := range symbols {
		returns := history[sym]
		tail := returns[len(returns)-minLen:]
		for t, r := range tail {
			combined[t] += weights[i] * r
		}
	}
	return combined
}

// tailMeanLoss returns the mean loss magnitude of the worst (1-c) fraction
// of a return distribution, or 0 when the tail is empty or non-negative.
func tailMeanLoss(returns []float64, confidence float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailSize := int(math.Ceil(float64(len(sorted)) * (1 - confidence)))
	if tailSize < 1 {
		tailSize = 1
	}
	mean := stats.Mean(sorted[:tailSize])
	if mean >= 0 {
		return 0
	}
	return -mean
}

// rewardRatios computes annualized Sharpe and Sortino. Zero volatility or
// zero downside deviation fails with ErrDivisionGuard rather than returning
// infinity. Both ratios are 0 when no observed history exists.
func rewardRatios(returns []float64, annualVol, riskFree float64) (sharpe, sortino float64, err error) {
	if len(returns) < 2 {
		return 0, 0, nil
	}
	if annualVol == 0 {
		return 0, 0, domain.DivisionGuardError("volatility", "zero volatility makes Sharpe undefined")
	}

	annualReturn := stats.Mean(returns) * TradingDaysPerYear
	sharpe = (annualReturn - riskFree) / annualVol

	downside := stats.DownsideDeviation(returns) * math.Sqrt(TradingDaysPerYear)
	if downside == 0 {
		// No losing days in history: downside risk is genuinely absent, not a
		// caller mistake. Report Sortino as 0 rather than failing the call.
		return sharpe, 0, nil
	}
	sortino = (annualReturn - riskFree) / downside

	return sharpe, sortino, nil
}

// drawdownFromReturns rebuilds a unit-capital equity path from the return
// series and scans it for the worst decline.
func drawdownFromReturns(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	curve := make([]float64, len(returns)+1)
	curve[0] = 1
	for i, r := range returns {
		curve[i+1] = curve[i] * (1 + r)
	}
	return stats.MaxDrawdown(curve)
}

// riskScore blends volatility, concentration, and drawdown into a 0-100
// composite: half from volatility (saturating at 200% annual), 30 points
// from the Herfindahl index, 20 from drawdown (saturating at 50%).
func riskScore(r *domain.RiskReport) float64 {
	volComponent := r.Volatility / 2.0
	if volComponent > 1 {
		volComponent = 1
	}
	ddComponent := r.MaxDrawdown / 0.5
	if ddComponent > 1 {
		ddComponent = 1
	}
	score := volComponent*50 + r.HerfindahlIndex*30 + ddComponent*20
	if score > 100 {
		score = 100
	}
	return score
}
