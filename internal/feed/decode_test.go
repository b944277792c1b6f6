package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-quant-lab/internal/domain"
)

func TestDecodePriceSeries_PairEncoding(t *testing.T) {
	data := []byte(`[[1700000000000, 50000], [1700000060000, 50100.5]]`)

	series, err := DecodePriceSeries(data, "BTC")
	require.NoError(t, err)

	require.Len(t, series.Bars, 2)
	assert.Equal(t, int64(1700000000000), series.Bars[0].TimestampMs)
	assert.Equal(t, 50000.0, series.Bars[0].Price)
	assert.Equal(t, 50100.5, series.Bars[1].Price)
	assert.Equal(t, 0.0, series.Bars[0].Volume)
}

func TestDecodePriceSeries_ObjectEncoding(t *testing.T) {
	data := []byte(`[
		{"timestamp": 1700000000000, "price": 50000, "volume": 12.5},
		{"timestamp": 1700000060000, "price": 50100}
	]`)

	series, err := DecodePriceSeries(data, "BTC")
	require.NoError(t, err)

	require.Len(t, series.Bars, 2)
	assert.Equal(t, 12.5, series.Bars[0].Volume)
	assert.Equal(t, 50100.0, series.Bars[1].Price)
}

func TestDecodePriceSeries_MixedEncodings(t *testing.T) {
	data := []byte(`[[1700000000000, 50000], {"timestamp": 1700000060000, "price": 50100}]`)

	series, err := DecodePriceSeries(data, "BTC")
	require.NoError(t, err)
	assert.Len(t, series.Bars, 2)
}

func TestDecodePriceSeries_RejectsMalformedPair(t *testing.T) {
	_, err := DecodePriceSeries([]byte(`[[1700000000000, 50000, 1]]`), "BTC")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDecodePriceSeries_RejectsUnorderedTimestamps(t *testing.T) {
	data := []byte(`[[1700000060000, 50100], [1700000000000, 50000]]`)
	_, err := DecodePriceSeries(data, "BTC")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDecodePriceSeries_RejectsNonPositivePrice(t *testing.T) {
	_, err := DecodePriceSeries([]byte(`[[1700000000000, 0]]`), "BTC")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDecodePriceSeries_RejectsEmpty(t *testing.T) {
	_, err := DecodePriceSeries([]byte(`[]`), "BTC")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDecodeHoldings_AmountMapsToQuantity(t *testing.T) {
	data := []byte(`[
		{"symbol": "BTC", "amount": 1.5, "entryPrice": 40000, "currentPrice": 50000},
		{"symbol": "ETH", "amount": 10, "entryPrice": 2000, "currentPrice": 2500}
	]`)

	portfolio, err := DecodeHoldings(data)
	require.NoError(t, err)

	require.Len(t, portfolio.Holdings, 2)
	assert.Equal(t, 1.5, portfolio.Holdings[0].Quantity)
	assert.Equal(t, 50000.0, portfolio.Holdings[0].CurrentPrice)
}

func TestDecodeHoldings_RejectsDuplicateSymbols(t *testing.T) {
	data := []byte(`[
		{"symbol": "BTC", "amount": 1, "entryPrice": 1, "currentPrice": 1},
		{"symbol": "BTC", "amount": 2, "entryPrice": 1, "currentPrice": 1}
	]`)
	_, err := DecodeHoldings(data)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDecodeHoldings_RejectsNonPositiveAmount(t *testing.T) {
	data := []byte(`[{"symbol": "BTC", "amount": 0, "entryPrice": 1, "currentPrice": 1}]`)
	_, err := DecodeHoldings(data)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDecodeCorrelations_Bounds(t *testing.T) {
	matrix, err := DecodeCorrelations([]byte(`{"BTC": {"ETH": 0.8}}`))
	require.NoError(t, err)
	v, ok := matrix.At("ETH", "BTC")
	assert.True(t, ok)
	assert.Equal(t, 0.8, v)

	_, err = DecodeCorrelations([]byte(`{"BTC": {"ETH": 1.2}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
