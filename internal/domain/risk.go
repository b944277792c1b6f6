package domain

// Concentration risk levels, bucketed by the top-3 holdings' share of total
// value: >60% HIGH, >40% MEDIUM, else LOW (strict >).
const (
	ConcentrationHigh   = "HIGH"
	ConcentrationMedium = "MEDIUM"
	ConcentrationLow    = "LOW"
)

// Volatility source labels. A RiskReport built on estimated volatilities is
// flagged so callers can decide whether policy-estimated figures are
// acceptable for their use case.
const (
	VolatilityObserved  = "OBSERVED"
	VolatilityEstimated = "ESTIMATED"
)

// AssetVolatility is one asset's annualized volatility together with where
// the figure came from.
type AssetVolatility struct {
	Symbol     string
	Volatility float64
	Source     string // OBSERVED | ESTIMATED
}

// CorrelatedPair flags a holding pair whose correlation exceeds the
// diversification threshold.
type CorrelatedPair struct {
	SymbolA     string
	SymbolB     string
	Correlation float64
}

// RiskReport holds portfolio risk and diversification metrics. Produced
// fresh on each call; never persisted by the engine.
type RiskReport struct {
	PortfolioValue float64

	Volatility float64 // annualized portfolio volatility
	VaR95      float64 // value at risk at the requested confidence
	CVaR95     float64 // conditional VaR (expected tail loss)

	SharpeRatio  float64
	SortinoRatio float64
	MaxDrawdown  float64

	HerfindahlIndex      float64
	DiversificationScore float64 // max(0, 100*(1-H))
	ConcentrationLevel   string  // HIGH | MEDIUM | LOW
	TopHoldingsShare     float64 // share of value in the top 3 holdings

	CorrelatedPairs []CorrelatedPair

	AssetVolatilities []AssetVolatility
	Estimated         bool // true when any asset volatility is policy-estimated

	RiskScore float64 // 0-100 composite
}

// KellyRecommendation is the PositionSizer output: the raw Kelly fraction
// plus the capped dollar recommendation and which cap bound it.
type KellyRecommendation struct {
	KellyFraction   float64 // raw f* = (b*p - q)/b
	AppliedFraction float64 // after fractional-Kelly scaling
	RecommendedSize float64 // dollars, after all caps
	CapApplied      string  // which of the three caps was binding
}

// StopLevels holds stop-loss and take-profit prices derived from a risk
// budget, plus the volatility-based alternatives. Callers pick one; none
// overrides another.
type StopLevels struct {
	EntryPrice      float64
	StopDistancePct float64
	StopPrice       float64
	TargetPrice     float64
	ATRStop         float64 // entry * (1 - 2*vol)
	ChandelierStop  float64 // entry * (1 - 3*vol)
}
