package domain

// TradeSide represents the direction of a simulated trade.
type TradeSide string

// Trade side constants.
const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

// TradeRecord is one executed simulated trade. Records are append-only;
// append order equals execution order.
type TradeRecord struct {
	Side        TradeSide
	Price       float64
	Quantity    float64
	BarIndex    int
	TimestampMs int64
}

// EquityPoint is one portfolio-value sample, one per bar processed.
type EquityPoint struct {
	BarIndex    int
	TimestampMs int64
	Equity      float64
}

// EquityCurve is the ordered sequence of equity samples, monotonically
// indexed by bar and never reordered.
type EquityCurve []EquityPoint

// Values returns the raw equity values in bar order.
func (c EquityCurve) Values() []float64 {
	values := make([]float64, len(c))
	for i, p := range c {
		values[i] = p.Equity
	}
	return values
}

// BacktestMetrics are derived from the equity curve after a run completes.
type BacktestMetrics struct {
	TotalReturn    float64 // final vs initial equity, percent
	BuyHoldReturn  float64 // first vs last price, strategy-independent
	Outperformance float64 // TotalReturn - BuyHoldReturn
	SharpeRatio    float64 // annualized off daily equity returns, sqrt(252)
	MaxDrawdown    float64 // percent, via running-peak scan
	WinRate        float64 // fraction of SELLs above the preceding BUY
	ProfitFactor   float64 // grossProfit/grossLoss with 100/0 sentinel
	TradeCount     int
}

// BacktestReport is the full result of one backtest run.
type BacktestReport struct {
	RunID          string
	Symbol         string
	InitialCapital float64
	FinalEquity    float64
	Bars           int
	Trades         []TradeRecord
	Curve          EquityCurve
	Metrics        BacktestMetrics
}
