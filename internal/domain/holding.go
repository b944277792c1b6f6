package domain

// Holding is an immutable snapshot of one position. The engine never mutates
// caller-owned holdings; shocked or projected values are returned as copies.
type Holding struct {
	Symbol       string  // asset identifier, e.g. "BTC"
	Quantity     float64 // units held, > 0
	EntryPrice   float64 // acquisition price per unit, > 0
	CurrentPrice float64 // latest market price per unit, > 0
}

// MarketValue returns quantity * currentPrice.
func (h Holding) MarketValue() float64 {
	return h.Quantity * h.CurrentPrice
}

// UnrealizedPnL returns quantity * (currentPrice - entryPrice).
func (h Holding) UnrealizedPnL() float64 {
	return h.Quantity * (h.CurrentPrice - h.EntryPrice)
}

// Validate checks the positivity invariants on a single holding.
func (h Holding) Validate() error {
	if h.Symbol == "" {
		return InvalidParameterError("symbol", "must not be empty")
	}
	if h.Quantity <= 0 {
		return InvalidParameterError("quantity", "must be > 0")
	}
	if h.EntryPrice <= 0 {
		return InvalidParameterError("entryPrice", "must be > 0")
	}
	if h.CurrentPrice <= 0 {
		return InvalidParameterError("currentPrice", "must be > 0")
	}
	return nil
}

// CorrelationMatrix maps symbol pairs to pairwise correlation in [-1, 1].
// The diagonal is implicitly 1.
type CorrelationMatrix map[string]map[string]float64

// At returns the correlation between two symbols and whether it is known.
// Lookup is symmetric; the diagonal is always known and equal to 1.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	if a == b {
		return 1, true
	}
	if row, ok := m[a]; ok {
		if v, ok := row[b]; ok {
			return v, true
		}
	}
	if row, ok := m[b]; ok {
		if v, ok := row[a]; ok {
			return v, true
		}
	}
	return 0, false
}

// Validate checks all entries are within [-1, 1].
func (m CorrelationMatrix) Validate() error {
	for a, row := range m {
		for b, v := range row {
			if v < -1 || v > 1 {
				return InvalidParameterError("correlationMatrix", a+"/"+b+" outside [-1, 1]")
			}
		}
	}
	return nil
}

// Portfolio is an ordered set of holdings, unique by symbol, with an optional
// pairwise correlation matrix.
type Portfolio struct {
	Holdings     []Holding
	Correlations CorrelationMatrix // optional; nil means unknown
}

// TotalValue returns the sum of holding market values.
func (p *Portfolio) TotalValue() float64 {
	total := 0.0
	for _, h := range p.Holdings {
		total += h.MarketValue()
	}
	return total
}

// Weights returns each holding's share of total market value, in holding
// order. Returns ErrDivisionGuard when total value is zero.
func (p *Portfolio) Weights() ([]float64, error) {
	total := p.TotalValue()
	if total <= 0 {
		return nil, DivisionGuardError("portfolio", "total market value must be > 0")
	}
	weights := make([]float64, len(p.Holdings))
	for i, h := range p.Holdings {
		weights[i] = h.MarketValue() / total
	}
	return weights, nil
}

// Validate checks every holding, symbol uniqueness, and the correlation
// matrix bounds.
func (p *Portfolio) Validate() error {
	if len(p.Holdings) == 0 {
		return InvalidParameterError("holdings", "must not be empty")
	}
	seen := make(map[string]struct{}, len(p.Holdings))
	for _, h := range p.Holdings {
		if err := h.Validate(); err != nil {
			return err
		}
		if _, dup := seen[h.Symbol]; dup {
			return InvalidParameterError("holdings", "duplicate symbol "+h.Symbol)
		}
		seen[h.Symbol] = struct{}{}
	}
	if p.Correlations != nil {
		return p.Correlations.Validate()
	}
	return nil
}
