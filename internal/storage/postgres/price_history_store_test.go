package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/storage"
)

func TestPriceHistoryStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(pool)
	ctx := context.Background()

	bars := []domain.PriceBar{
		{TimestampMs: 1000, Price: 100.0, Volume: 5000.0},
		{TimestampMs: 2000, Price: 105.0, Volume: 6000.0},
		{TimestampMs: 3000, Price: 102.5, Volume: 4500.0},
	}

	err := store.InsertBars(ctx, "SOL", bars)
	require.NoError(t, err)

	got, err := store.GetBySymbol(ctx, "SOL")
	require.NoError(t, err)
	assert.Equal(t, "SOL", got.Symbol)
	require.Len(t, got.Bars, 3)
	assert.Equal(t, int64(1000), got.Bars[0].TimestampMs)
	assert.Equal(t, 100.0, got.Bars[0].Price)
	assert.Equal(t, 5000.0, got.Bars[0].Volume)
	assert.Equal(t, int64(3000), got.Bars[2].TimestampMs)
}

func TestPriceHistoryStore_InsertBars_Validation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(pool)
	ctx := context.Background()

	err := store.InsertBars(ctx, "", []domain.PriceBar{{TimestampMs: 1000, Price: 1.0}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.InsertBars(ctx, "SOL", []domain.PriceBar{{TimestampMs: 1000, Price: 0}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	// Empty batch is a no-op
	assert.NoError(t, store.InsertBars(ctx, "SOL", nil))
}

func TestPriceHistoryStore_InsertBars_DuplicateRollsBackBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBars(ctx, "SOL", []domain.PriceBar{
		{TimestampMs: 1000, Price: 100.0},
	}))

	// Second bar is new but the batch contains a duplicate; nothing
	// from the batch may land.
	err := store.InsertBars(ctx, "SOL", []domain.PriceBar{
		{TimestampMs: 1000, Price: 101.0},
		{TimestampMs: 2000, Price: 102.0},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetBySymbol(ctx, "SOL")
	require.NoError(t, err)
	require.Len(t, got.Bars, 1)
	assert.Equal(t, 100.0, got.Bars[0].Price)
}

func TestPriceHistoryStore_GetBySymbol_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(pool)
	_, err := store.GetBySymbol(context.Background(), "MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPriceHistoryStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(pool)
	ctx := context.Background()

	bars := []domain.PriceBar{
		{TimestampMs: 1000, Price: 1.0},
		{TimestampMs: 2000, Price: 2.0},
		{TimestampMs: 3000, Price: 3.0},
		{TimestampMs: 4000, Price: 4.0},
	}
	require.NoError(t, store.InsertBars(ctx, "SOL", bars))

	// Range bounds are inclusive
	got, err := store.GetByTimeRange(ctx, "SOL", 2000, 3000)
	require.NoError(t, err)
	require.Len(t, got.Bars, 2)
	assert.Equal(t, int64(2000), got.Bars[0].TimestampMs)
	assert.Equal(t, int64(3000), got.Bars[1].TimestampMs)

	got, err = store.GetByTimeRange(ctx, "SOL", 4000, 4000)
	require.NoError(t, err)
	require.Len(t, got.Bars, 1)

	_, err = store.GetByTimeRange(ctx, "SOL", 5000, 6000)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPriceHistoryStore_Symbols(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(pool)
	ctx := context.Background()

	symbols, err := store.Symbols(ctx)
	require.NoError(t, err)
	assert.Empty(t, symbols)

	bar := []domain.PriceBar{{TimestampMs: 1000, Price: 1.0}}
	require.NoError(t, store.InsertBars(ctx, "SOL", bar))
	require.NoError(t, store.InsertBars(ctx, "BTC", bar))
	require.NoError(t, store.InsertBars(ctx, "ETH", bar))

	symbols, err = store.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, symbols)
}
