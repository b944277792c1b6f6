package backtest

import (
	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/stats"
)

// Signal is a strategy's decision for one bar.
type Signal string

// Signal constants.
const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// SignalFunc decides an action from the trailing window of bars. The window
// ends at the current bar and holds at most the configured window size; it
// is read-only for the duration of the call.
type SignalFunc func(window []domain.PriceBar) Signal

// HoldOnly never trades. Useful as a baseline: the equity curve stays flat
// at the initial capital.
func HoldOnly() SignalFunc {
	return func([]domain.PriceBar) Signal {
		return SignalHold
	}
}

// MovingAverageCross trades on the price's position relative to its trailing
// average over the last period bars (fewer while the window warms up): at or
// above the average buys, below it sells.
func MovingAverageCross(period int) SignalFunc {
	return func(window []domain.PriceBar) Signal {
		if len(window) == 0 {
			return SignalHold
		}
		start := len(window) - period
		if start < 0 {
			start = 0
		}
		prices := make([]float64, 0, len(window)-start)
		for _, bar := range window[start:] {
			prices = append(prices, bar.Price)
		}

		price := window[len(window)-1].Price
		avg := stats.Mean(prices)
		switch {
		case price >= avg:
			return SignalBuy
		case price < avg:
			return SignalSell
		}
		return SignalHold
	}
}
