// Package storage defines the price-history feed interface the analytics
// engines read from, plus its error sentinels. Result persistence is a
// caller concern and deliberately has no interface here.
package storage

import (
	"context"

	"crypto-quant-lab/internal/domain"
)

// PriceHistoryStore holds historical price bars per symbol.
// Implementations: memory (tests, CLIs), postgres, clickhouse.
type PriceHistoryStore interface {
	// InsertBars appends bars for a symbol. The whole batch fails on any
	// duplicate (symbol, timestamp).
	InsertBars(ctx context.Context, symbol string, bars []domain.PriceBar) error

	// GetBySymbol returns the full series for a symbol ordered by timestamp
	// ASC. Returns ErrNotFound when no bars exist.
	GetBySymbol(ctx context.Context, symbol string) (*domain.PriceSeries, error)

	// GetByTimeRange returns the series restricted to [start, end] inclusive,
	// ordered by timestamp ASC. Returns ErrNotFound when no bars match.
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) (*domain.PriceSeries, error)

	// Symbols lists all symbols with stored history, sorted.
	Symbols(ctx context.Context) ([]string, error)
}
