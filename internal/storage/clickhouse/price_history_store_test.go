package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/storage"
)

func TestPriceHistoryStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	// Empty insert is a no-op
	err := store.InsertBars(ctx, "SOL", nil)
	assert.NoError(t, err)

	bars := []domain.PriceBar{
		{TimestampMs: 1000, Price: 100.0, Volume: 5000.0},
		{TimestampMs: 2000, Price: 105.0, Volume: 6000.0},
		{TimestampMs: 3000, Price: 102.5, Volume: 4500.0},
	}

	err = store.InsertBars(ctx, "SOL", bars)
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

func TestPriceHistoryStore_InsertBars_EmptySymbol(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	err := store.InsertBars(context.Background(), "", []domain.PriceBar{
		{TimestampMs: 1000, Price: 1.0},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestPriceHistoryStore_InsertBars_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	bars := []domain.PriceBar{{TimestampMs: 1000, Price: 100.0, Volume: 10.0}}

	err := store.InsertBars(ctx, "SOL", bars)
	require.NoError(t, err)

	err = store.InsertBars(ctx, "SOL", bars)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same timestamp under a different symbol is fine
	err = store.InsertBars(ctx, "ETH", bars)
	assert.NoError(t, err)
}

func TestPriceHistoryStore_InsertBars_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)

	bars := []domain.PriceBar{
		{TimestampMs: 1000, Price: 100.0},
		{TimestampMs: 1000, Price: 101.0},
	}

	err := store.InsertBars(context.Background(), "SOL", bars)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPriceHistoryStore_GetBySymbol_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	_, err := store.GetBySymbol(context.Background(), "MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPriceHistoryStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
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

	got, err = store.GetByTimeRange(ctx, "SOL", 1000, 1000)
	require.NoError(t, err)
	require.Len(t, got.Bars, 1)

	_, err = store.GetByTimeRange(ctx, "SOL", 5000, 6000)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPriceHistoryStore_Symbols(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
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
