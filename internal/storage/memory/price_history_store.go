// Package memory provides in-memory store implementations for tests and
// CLI runs that have no database at hand.
package memory

import (
	"context"
	"sort"
	"sync"

	"crypto-quant-lab/internal/domain"
	"crypto-quant-lab/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of
// storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string]map[int64]domain.PriceBar // symbol -> timestamp -> bar
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[string]map[int64]domain.PriceBar),
	}
}

// InsertBars appends bars for a symbol. Fails the entire batch on any
// duplicate timestamp, existing or intra-batch.
func (s *PriceHistoryStore) InsertBars(_ context.Context, symbol string, bars []domain.PriceBar) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[symbol]

	batchKeys := make(map[int64]struct{}, len(bars))
	for _, b := range bars {
		if b.Price <= 0 {
			return storage.ErrInvalidInput
		}
		if _, dup := existing[b.TimestampMs]; dup {
			return storage.ErrDuplicateKey
		}
		if _, dup := batchKeys[b.TimestampMs]; dup {
			return storage.ErrDuplicateKey
		}
		batchKeys[b.TimestampMs] = struct{}{}
	}

	if existing == nil {
		existing = make(map[int64]domain.PriceBar, len(bars))
		s.data[symbol] = existing
	}
	for _, b := range bars {
		existing[b.TimestampMs] = b
	}

	return nil
}

// GetBySymbol returns the full series ordered by timestamp ASC.
func (s *PriceHistoryStore) GetBySymbol(ctx context.Context, symbol string) (*domain.PriceSeries, error) {
	return s.GetByTimeRange(ctx, symbol, 0, int64(1)<<62)
}

// GetByTimeRange returns the series restricted to [start, end] inclusive.
func (s *PriceHistoryStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) (*domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bars []domain.PriceBar
	for ts, b := range s.data[symbol] {
		if ts >= start && ts <= end {
			bars = append(bars, b)
		}
	}
	if len(bars) == 0 {
		return nil, storage.ErrNotFound
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].TimestampMs < bars[j].TimestampMs
	})

	return &domain.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// Symbols lists all symbols with stored history, sorted.
func (s *PriceHistoryStore) Symbols(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.data))
	for sym, bars := range s.data {
		if len(bars) > 0 {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)
