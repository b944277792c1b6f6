package backtest

import (
	"math"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/stats"
)

// annualizationFactor scales daily Sharpe to annual terms.
var annualizationFactor = math.Sqrt(252)

// profitFactorCap is the sentinel for a strategy with zero gross loss:
// 100 when any profit exists, 0 otherwise. Explicit policy, not a NaN.
const profitFactorCap = 100

// computeMetrics derives the performance statistics after a run completes.
func computeMetrics(series *domain.PriceSeries, curve domain.EquityCurve, trades []domain.TradeRecord, initialCapital float64) domain.BacktestMetrics {
	equity := curve.Values()
	finalEquity := equity[len(equity)-1]

	firstPrice := series.Bars[0].Price
	lastPrice := series.Bars[len(series.Bars)-1].Price

	metrics := domain.BacktestMetrics{
		TotalReturn:   (finalEquity - initialCapital) / initialCapital * 100,
		BuyHoldReturn: (lastPrice - firstPrice) / firstPrice * 100,
		MaxDrawdown:   stats.MaxDrawdown(equity) * 100,
		TradeCount:    len(trades),
	}
	metrics.Outperformance = metrics.TotalReturn - metrics.BuyHoldReturn
	metrics.SharpeRatio = sharpeRatio(equity)
	metrics.WinRate = winRate(trades)
	metrics.ProfitFactor = profitFactor(trades)

	return metrics
}

// sharpeRatio annualizes the mean/stddev of daily equity returns. A flat
// curve has zero volatility and nothing to risk-adjust; 0 is the sentinel.
func sharpeRatio(equity []float64) float64 {
	returns := stats.Returns(equity)
	stdDev := stats.StdDev(returns)
	if stdDev == 0 {
		return 0
	}
	return stats.Mean(returns) / stdDev * annualizationFactor
}

// winRate is the fraction of SELL trades priced above the preceding BUY.
// 0 when no round trip completed.
func winRate(trades []domain.TradeRecord) float64 {
	sells := 0
	wins := 0
	var lastBuyPrice float64
	for _, t := range trades {
		switch t.Side {
		case domain.TradeBuy:
			lastBuyPrice = t.Price
		case domain.TradeSell:
			sells++
			if t.Price > lastBuyPrice {
				wins++
			}
		}
	}
	if sells == 0 {
		return 0
	}
	return float64(wins) / float64(sells)
}

// profitFactor is grossProfit/grossLoss over completed round trips, with
// the documented zero-loss sentinel.
func profitFactor(trades []domain.TradeRecord) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	var lastBuyPrice float64
	for _, t := range trades {
		switch t.Side {
		case domain.TradeBuy:
			lastBuyPrice = t.Price
		case domain.TradeSell:
			pnl := (t.Price - lastBuyPrice) * t.Quantity
			if pnl >= 0 {
				grossProfit += pnl
			} else {
				grossLoss += -pnl
			}
		}
	}

	if grossLoss == 0 {
		if grossProfit > 0 {
			return profitFactorCap
		}
		return 0
	}
	return grossProfit / grossLoss
}
