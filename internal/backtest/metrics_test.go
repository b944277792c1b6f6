package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crypto-quant-lab/internal/domain"
)

func roundTrip(buyPrice, sellPrice, quantity float64) []domain.TradeRecord {
	return []domain.TradeRecord{
		{Side: domain.TradeBuy, Price: buyPrice, Quantity: quantity},
		{Side: domain.TradeSell, Price: sellPrice, Quantity: quantity},
	}
}

func TestWinRate_MixedRoundTrips(t *testing.T) {
	trades := append(roundTrip(100, 110, 1), roundTrip(110, 99, 1)...)
	assert.Equal(t, 0.5, winRate(trades))
}

func TestWinRate_NoSells(t *testing.T) {
	trades := []domain.TradeRecord{{Side: domain.TradeBuy, Price: 100, Quantity: 1}}
	assert.Equal(t, 0.0, winRate(trades))
}

func TestWinRate_SellAtBuyPriceIsNotAWin(t *testing.T) {
	assert.Equal(t, 0.0, winRate(roundTrip(100, 100, 1)))
}

func TestProfitFactor_Ratio(t *testing.T) {
	// +20 on the first trip, -10 on the second: factor 2.
	trades := append(roundTrip(100, 120, 1), roundTrip(120, 110, 1)...)
	assert.InDelta(t, 2.0, profitFactor(trades), 1e-12)
}

func TestProfitFactor_ZeroLossSentinel(t *testing.T) {
	// Only profitable trips: the sentinel caps the factor at 100.
	assert.Equal(t, float64(profitFactorCap), profitFactor(roundTrip(100, 130, 1)))

	// No trades at all: no profit, no loss, factor 0.
	assert.Equal(t, 0.0, profitFactor(nil))
}

func TestProfitFactor_AllLosses(t *testing.T) {
	assert.Equal(t, 0.0, profitFactor(roundTrip(100, 90, 1)))
}

func TestSharpeRatio_FlatCurveSentinel(t *testing.T) {
	assert.Equal(t, 0.0, sharpeRatio([]float64{10000, 10000, 10000}))
}

func TestSharpeRatio_PositiveForSteadyGains(t *testing.T) {
	equity := []float64{10000, 10100, 10150, 10300, 10350}
	assert.Greater(t, sharpeRatio(equity), 0.0)
}
