// Package sizing implements Kelly-criterion position sizing and stop/target
// derivation from a risk budget.
package sizing

import (
	"fmt"

	"crypto-quant-lab/internal/domain"
)

// Sizing policy constants. The three caps are independent conservatism
// layers; the tightest one wins.
const (
	// FractionalKelly scales raw Kelly down to a quarter.
	FractionalKelly = 0.25

	// DefaultRiskPerTrade caps exposure at 2% of account size.
	DefaultRiskPerTrade = 0.02

	// HardCeiling is the absolute cap at 5% of account size, applied no
	// matter how favorable the estimates look.
	HardCeiling = 0.05
)

// Cap labels reported in KellyRecommendation.CapApplied.
const (
	CapFractionalKelly = "FRACTIONAL_KELLY"
	CapRiskPerTrade    = "RISK_PER_TRADE"
	CapHardCeiling     = "HARD_CEILING"
	CapNone            = "NONE" // Kelly fraction non-positive; nothing to size
)

// KellyParams are the inputs to position sizing.
type KellyParams struct {
	AccountSize  float64 // total account value, > 0
	WinRate      float64 // historical win probability, in [0, 1]
	AvgWinPct    float64 // average winning-trade return, > 0
	AvgLossPct   float64 // average losing-trade loss magnitude, > 0
	RiskPerTrade float64 // optional; defaults to 2%
}

// PositionSize computes the capped Kelly recommendation.
// f* = (b*p - q)/b with b = avgWin/avgLoss and q = 1-p. The dollar
// recommendation is min(account*f**0.25, account*riskPerTrade, account*5%).
func PositionSize(params KellyParams) (*domain.KellyRecommendation, error) {
	if params.AccountSize <= 0 {
		return nil, domain.InvalidParameterError("accountSize", "must be > 0")
	}
	if params.WinRate < 0 || params.WinRate > 1 {
		return nil, domain.InvalidParameterError("winRate", "must be within [0, 1]")
	}
	if params.AvgWinPct <= 0 {
		return nil, domain.InvalidParameterError("avgWin", "must be > 0")
	}
	if params.AvgLossPct <= 0 {
		return nil, domain.InvalidParameterError("avgLoss", "must be > 0")
	}
	riskPerTrade := params.RiskPerTrade
	if riskPerTrade == 0 {
		riskPerTrade = DefaultRiskPerTrade
	}
	if riskPerTrade < 0 || riskPerTrade > 1 {
		return nil, domain.InvalidParameterError("riskPerTrade", "must be within (0, 1]")
	}

	b := params.AvgWinPct / params.AvgLossPct
	q := 1 - params.WinRate
	kelly := (b*params.WinRate - q) / b

	rec := &domain.KellyRecommendation{KellyFraction: kelly}

	if kelly <= 0 {
		// Negative edge: the formula says do not bet.
		rec.CapApplied = CapNone
		return rec, nil
	}

	rec.AppliedFraction = kelly * FractionalKelly

	kellySize := params.AccountSize * rec.AppliedFraction
	riskCapSize := params.AccountSize * riskPerTrade
	ceilingSize := params.AccountSize * HardCeiling

	rec.RecommendedSize = kellySize
	rec.CapApplied = CapFractionalKelly
	if riskCapSize < rec.RecommendedSize {
		rec.RecommendedSize = riskCapSize
		rec.CapApplied = CapRiskPerTrade
	}
	if ceilingSize < rec.RecommendedSize {
		rec.RecommendedSize = ceilingSize
		rec.CapApplied = CapHardCeiling
	}

	return rec, nil
}

// StopParams are the inputs to stop/target derivation.
type StopParams struct {
	EntryPrice    float64 // > 0
	AccountSize   float64 // > 0
	RiskAmount    float64 // dollar risk budget for the trade, > 0
	RewardRatio   float64 // risk:reward multiple, > 0
	VolatilityPct float64 // recent volatility as a fraction, >= 0
}

// StopLevels derives stop-loss and take-profit prices from a dollar risk
// budget, plus the volatility-based alternatives (ATR and chandelier stops).
// The alternatives never override the budget-derived levels; callers choose.
func StopLevels(params StopParams) (*domain.StopLevels, error) {
	if params.EntryPrice <= 0 {
		return nil, domain.InvalidParameterError("entryPrice", "must be > 0")
	}
	if params.AccountSize <= 0 {
		return nil, domain.InvalidParameterError("accountSize", "must be > 0")
	}
	if params.RiskAmount <= 0 {
		return nil, domain.InvalidParameterError("riskAmount", "must be > 0")
	}
	if params.RewardRatio <= 0 {
		return nil, domain.InvalidParameterError("rewardRatio", "must be > 0")
	}
	if params.VolatilityPct < 0 {
		return nil, domain.InvalidParameterError("volatility", "must be >= 0")
	}

	// Stop distance expressed as a percentage: the risk budget measured
	// against 1% of the account.
	stopDistancePct := params.RiskAmount / (params.AccountSize * 0.01)
	if stopDistancePct >= 100 {
		return nil, domain.InvalidParameterError("riskAmount",
			fmt.Sprintf("stop distance %.1f%% would put the stop at or below zero", stopDistancePct))
	}

	return &domain.StopLevels{
		EntryPrice:      params.EntryPrice,
		StopDistancePct: stopDistancePct,
		StopPrice:       params.EntryPrice * (1 - stopDistancePct/100),
		TargetPrice:     params.EntryPrice * (1 + stopDistancePct/100*params.RewardRatio),
		ATRStop:         params.EntryPrice * (1 - 2*params.VolatilityPct),
		ChandelierStop:  params.EntryPrice * (1 - 3*params.VolatilityPct),
	}, nil
}
