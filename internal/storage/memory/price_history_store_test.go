package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/storage"
)

func testBars(n int) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	for i := range bars {
		bars[i] = domain.PriceBar{
			TimestampMs: int64(i+1) * 60_000,
			Price:       100 + float64(i),
		}
	}
	return bars
}

func TestInsertBars_AndGetBySymbol(t *testing.T) {
	ctx := context.Background()
	store := NewPriceHistoryStore()

	require.NoError(t, store.InsertBars(ctx, "BTC", testBars(5)))

	series, err := store.GetBySymbol(ctx, "BTC")
	require.NoError(t, err)
	require.Len(t, series.Bars, 5)
	assert.Equal(t, "BTC", series.Symbol)
	require.NoError(t, series.Validate())
}

func TestInsertBars_DuplicateFailsWholeBatch(t *testing.T) {
	ctx := context.Background()
	store := NewPriceHistoryStore()

	require.NoError(t, store.InsertBars(ctx, "BTC", testBars(3)))

	// Second batch collides on timestamp 60000; nothing may land.
	err := store.InsertBars(ctx, "BTC", []domain.PriceBar{
		{TimestampMs: 999_000, Price: 50},
		{TimestampMs: 60_000, Price: 51},
	})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	series, err := store.GetBySymbol(ctx, "BTC")
	require.NoError(t, err)
	assert.Len(t, series.Bars, 3)
}

func TestInsertBars_IntraBatchDuplicate(t *testing.T) {
	store := NewPriceHistoryStore()
	err := store.InsertBars(context.Background(), "BTC", []domain.PriceBar{
		{TimestampMs: 1000, Price: 1},
		{TimestampMs: 1000, Price: 2},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestGetBySymbol_NotFound(t *testing.T) {
	store := NewPriceHistoryStore()
	_, err := store.GetBySymbol(context.Background(), "NOPE")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetByTimeRange_Inclusive(t *testing.T) {
	ctx := context.Background()
	store := NewPriceHistoryStore()
	require.NoError(t, store.InsertBars(ctx, "BTC", testBars(5)))

	series, err := store.GetByTimeRange(ctx, "BTC", 120_000, 240_000)
	require.NoError(t, err)
	require.Len(t, series.Bars, 3)
	assert.Equal(t, int64(120_000), series.Bars[0].TimestampMs)
	assert.Equal(t, int64(240_000), series.Bars[2].TimestampMs)
}

func TestSymbols_Sorted(t *testing.T) {
	ctx := context.Background()
	store := NewPriceHistoryStore()
	require.NoError(t, store.InsertBars(ctx, "ETH", testBars(1)))
	require.NoError(t, store.InsertBars(ctx, "BTC", testBars(1)))

	symbols, err := store.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH"}, symbols)
}
