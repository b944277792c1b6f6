// Package feed decodes caller-supplied market data. Price history arrives
// in either of two wire encodings — [timestamp, price] pairs or
// {price, volume, timestamp} objects — and both must be accepted since
// callers vary. Everything is validated before an engine sees it.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"crypto-quant-lab/internal/domain"
)

// pricePoint is the object encoding of one history point.
type pricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// UnmarshalJSON accepts both encodings: a [timestamp, price] array or a
// {price, volume, timestamp} object.
func (p *pricePoint) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty price point")
	}

	if trimmed[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return fmt.Errorf("parse pair encoding: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("pair encoding needs exactly [timestamp, price], got %d elements", len(pair))
		}
		p.Timestamp = int64(pair[0])
		p.Price = pair[1]
		p.Volume = 0
		return nil
	}

	type object pricePoint // drop the custom unmarshaler
	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("parse object encoding: %w", err)
	}
	*p = pricePoint(obj)
	return nil
}

// DecodePriceSeries parses a JSON price history for one symbol and returns
// a validated series. Mixed encodings within one array are accepted.
func DecodePriceSeries(data []byte, symbol string) (*domain.PriceSeries, error) {
	var points []pricePoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, domain.InvalidParameterError("priceHistory", err.Error())
	}

	series := &domain.PriceSeries{Symbol: symbol}
	for _, p := range points {
		series.Bars = append(series.Bars, domain.PriceBar{
			TimestampMs: p.Timestamp,
			Price:       p.Price,
			Volume:      p.Volume,
		})
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// wireHolding is the JSON shape of one holding; "amount" is the wire name
// for quantity.
type wireHolding struct {
	Symbol       string  `json:"symbol"`
	Amount       float64 `json:"amount"`
	EntryPrice   float64 `json:"entryPrice"`
	CurrentPrice float64 `json:"currentPrice"`
}

// DecodeHoldings parses a JSON holdings array into a validated portfolio.
func DecodeHoldings(data []byte) (*domain.Portfolio, error) {
	var wire []wireHolding
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, domain.InvalidParameterError("holdings", err.Error())
	}

	portfolio := &domain.Portfolio{}
	for _, w := range wire {
		portfolio.Holdings = append(portfolio.Holdings, domain.Holding{
			Symbol:       w.Symbol,
			Quantity:     w.Amount,
			EntryPrice:   w.EntryPrice,
			CurrentPrice: w.CurrentPrice,
		})
	}
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// DecodeCorrelations parses an optional symbol-to-symbol correlation matrix.
func DecodeCorrelations(data []byte) (domain.CorrelationMatrix, error) {
	var matrix domain.CorrelationMatrix
	if err := json.Unmarshal(data, &matrix); err != nil {
		return nil, domain.InvalidParameterError("correlationMatrix", err.Error())
	}
	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	return matrix, nil
}
