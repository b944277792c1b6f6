package postgres

import (
	"context"
	"fmt"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using PostgreSQL.
type PriceHistoryStore struct {
	pool *Pool
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(pool *Pool) *PriceHistoryStore {
	return &PriceHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBars appends bars atomically. Fails the entire batch on any
// duplicate (symbol, timestamp_ms).
func (s *PriceHistoryStore) InsertBars(ctx context.Context, symbol string, bars []domain.PriceBar) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO price_history (symbol, timestamp_ms, price, volume)
		VALUES ($1, $2, $3, $4)
	`

	for _, b := range bars {
		if b.Price <= 0 {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, query, symbol, b.TimestampMs, b.Price, b.Volume); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert price bar: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySymbol returns the full series ordered by timestamp ASC.
func (s *PriceHistoryStore) GetBySymbol(ctx context.Context, symbol string) (*domain.PriceSeries, error) {
	query := `
		SELECT timestamp_ms, price, volume
		FROM price_history
		WHERE symbol = $1
		ORDER BY timestamp_ms ASC
	`
	return s.queryBars(ctx, symbol, query, symbol)
}

// GetByTimeRange returns the series restricted to [start, end] inclusive.
func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) (*domain.PriceSeries, error) {
	query := `
		SELECT timestamp_ms, price, volume
		FROM price_history
		WHERE symbol = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms ASC
	`
	return s.queryBars(ctx, symbol, query, symbol, start, end)
}

// Symbols lists all symbols with stored history, sorted.
func (s *PriceHistoryStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT symbol FROM price_history ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return symbols, nil
}

// queryBars runs a bar query and assembles the series.
func (s *PriceHistoryStore) queryBars(ctx context.Context, symbol, query string, args ...any) (*domain.PriceSeries, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	series := &domain.PriceSeries{Symbol: symbol}
	for rows.Next() {
		var b domain.PriceBar
		if err := rows.Scan(&b.TimestampMs, &b.Price, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}
	if len(series.Bars) == 0 {
		return nil, storage.ErrNotFound
	}
	return series, nil
}
