package domain

// PriceBar represents one observation in a price history.
type PriceBar struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Price       float64 // price at this point, > 0
	Volume      float64 // traded volume, 0 when unknown
}

// PriceSeries is a time-ordered, non-empty price history for one symbol.
// Invariant: timestamps strictly increasing.
type PriceSeries struct {
	Symbol string
	Bars   []PriceBar
}

// Validate checks the series invariants: non-empty, positive prices,
// strictly increasing timestamps.
func (s *PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return InvalidParameterError("priceSeries", "must not be empty")
	}
	for i, b := range s.Bars {
		if b.Price <= 0 {
			return InvalidParameterError("priceSeries", "price must be > 0")
		}
		if i > 0 && b.TimestampMs <= s.Bars[i-1].TimestampMs {
			return InvalidParameterError("priceSeries", "timestamps must be strictly increasing")
		}
	}
	return nil
}

// Prices returns the bar prices in order.
func (s *PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		prices[i] = b.Price
	}
	return prices
}

// Returns derives the simple return series: element i = (p[i+1]-p[i])/p[i].
// Length is len(bars)-1; nil for series shorter than 2 bars.
func (s *PriceSeries) Returns() []float64 {
	if len(s.Bars) < 2 {
		return nil
	}
	returns := make([]float64, len(s.Bars)-1)
	for i := 1; i < len(s.Bars); i++ {
		returns[i-1] = (s.Bars[i].Price - s.Bars[i-1].Price) / s.Bars[i-1].Price
	}
	return returns
}
