package clickhouse

import (
	"context"
	"fmt"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/storage"
)

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// PriceHistoryStore persists price bars in ClickHouse.
//
// MergeTree does not enforce uniqueness, so duplicate checks run
// before insert. This leaves a race window under concurrent writers;
// acceptable for a batch-loading analytics workload.
type PriceHistoryStore struct {
	conn *Conn
}

func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

func (s *PriceHistoryStore) InsertBars(ctx context.Context, symbol string, bars []domain.PriceBar) error {
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", storage.ErrInvalidInput)
	}
	if len(bars) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(bars))
	for _, bar := range bars {
		if bar.Price <= 0 {
			return fmt.Errorf("%w: non-positive price for %s at %d",
				storage.ErrInvalidInput, symbol, bar.TimestampMs)
		}
		if _, ok := seen[bar.TimestampMs]; ok {
			return fmt.Errorf("%w: timestamp %d repeated in batch for %s",
				storage.ErrDuplicateKey, bar.TimestampMs, symbol)
		}
		seen[bar.TimestampMs] = struct{}{}

		exists, err := s.barExists(ctx, symbol, bar.TimestampMs)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: bar for %s at %d already stored",
				storage.ErrDuplicateKey, symbol, bar.TimestampMs)
		}
	}

	batch, err := s.conn.PrepareBatch(ctx,
		`INSERT INTO price_history (symbol, timestamp_ms, price, volume)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, bar := range bars {
		if err := batch.Append(symbol, uint64(bar.TimestampMs), bar.Price, bar.Volume); err != nil {
			return fmt.Errorf("append bar: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (s *PriceHistoryStore) barExists(ctx context.Context, symbol string, timestampMs int64) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM price_history WHERE symbol = ? AND timestamp_ms = ?`,
		symbol, uint64(timestampMs),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check bar existence: %w", err)
	}
	return count > 0, nil
}

func (s *PriceHistoryStore) GetBySymbol(ctx context.Context, symbol string) (*domain.PriceSeries, error) {
	return s.queryBars(ctx, symbol,
		`SELECT timestamp_ms, price, volume
		 FROM price_history
		 WHERE symbol = ?
		 ORDER BY timestamp_ms`,
		symbol)
}

func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) (*domain.PriceSeries, error) {
	return s.queryBars(ctx, symbol,
		`SELECT timestamp_ms, price, volume
		 FROM price_history
		 WHERE symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		 ORDER BY timestamp_ms`,
		symbol, uint64(start), uint64(end))
}

func (s *PriceHistoryStore) queryBars(ctx context.Context, symbol, query string, args ...any) (*domain.PriceSeries, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price bars: %w", err)
	}
	defer rows.Close()

	series := &domain.PriceSeries{Symbol: symbol}
	for rows.Next() {
		var ts uint64
		var bar domain.PriceBar
		if err := rows.Scan(&ts, &bar.Price, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		bar.TimestampMs = int64(ts)
		series.Bars = append(series.Bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bars: %w", err)
	}

	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for symbol %s", storage.ErrNotFound, symbol)
	}
	return series, nil
}

func (s *PriceHistoryStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT DISTINCT symbol FROM price_history ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return symbols, nil
}
