// Package backtest replays a trading strategy bar-by-bar against a price
// series. One engine runs one series exactly once; runs across different
// series or strategies are independent and may execute concurrently.
package backtest

import (
	"context"

	"github.com/google/uuid"

	"crypto-quant-lab/internal/domain"
)

// Engine state machine. A run is all-or-nothing over its input series;
// there is no partial or paused state.
type State string

// State constants.
const (
	StateInitialized State = "INITIALIZED"
	StateRunning     State = "RUNNING"
	StateComplete    State = "COMPLETE"
)

// Defaults and minimums.
const (
	// DefaultInitialCapital is the documented starting cash.
	DefaultInitialCapital = 10000

	// DefaultWindowSize is the trailing window handed to the signal source.
	DefaultWindowSize = 30

	// MinBars is the minimum series length; shorter histories fail before
	// any simulation starts.
	MinBars = 30
)

// Config tunes one backtest run. Zero values take the documented defaults.
type Config struct {
	InitialCapital float64 // default 10000
	WindowSize     int     // default 30
}

// Engine replays a strategy over one price series. Within a run each bar
// depends on the prior cash/quantity state, so execution is sequential.
type Engine struct {
	series *domain.PriceSeries
	signal SignalFunc
	config Config

	state    State
	cash     float64
	quantity float64
	trades   []domain.TradeRecord
	curve    domain.EquityCurve
}

// NewEngine validates all preconditions up front (fail fast, not mid-run)
// and returns an engine in the INITIALIZED state.
func NewEngine(series *domain.PriceSeries, signal SignalFunc, config Config) (*Engine, error) {
	if signal == nil {
		return nil, domain.InvalidParameterError("signal", "signal function is required")
	}
	if config.InitialCapital == 0 {
		config.InitialCapital = DefaultInitialCapital
	}
	if config.InitialCapital < 0 {
		return nil, domain.InvalidParameterError("initialCapital", "must be > 0")
	}
	if config.WindowSize == 0 {
		config.WindowSize = DefaultWindowSize
	}
	if config.WindowSize < 1 {
		return nil, domain.InvalidParameterError("windowSize", "must be >= 1")
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if len(series.Bars) < MinBars {
		return nil, domain.InsufficientDataError("priceSeries",
			"backtest requires at least 30 bars")
	}

	return &Engine{
		series: series,
		signal: signal,
		config: config,
		state:  StateInitialized,
		cash:   config.InitialCapital,
		curve:  make(domain.EquityCurve, 0, len(series.Bars)),
	}, nil
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Run replays every bar and derives the final metrics. An engine runs once;
// a second call is rejected.
func (e *Engine) Run(ctx context.Context) (*domain.BacktestReport, error) {
	if e.state != StateInitialized {
		return nil, domain.InvalidParameterError("state", "engine has already run")
	}
	e.state = StateRunning

	for i := range e.series.Bars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.step(i)
	}

	e.state = StateComplete

	finalEquity := e.curve[len(e.curve)-1].Equity
	return &domain.BacktestReport{
		RunID:          uuid.NewString(),
		Symbol:         e.series.Symbol,
		InitialCapital: e.config.InitialCapital,
		FinalEquity:    finalEquity,
		Bars:           len(e.series.Bars),
		Trades:         e.trades,
		Curve:          e.curve,
		Metrics:        computeMetrics(e.series, e.curve, e.trades, e.config.InitialCapital),
	}, nil
}

// step executes one bar: ask the signal source, trade all-in/all-out, and
// append the equity sample. The append is unconditional (HOLD included) so
// drawdown and Sharpe see every bar.
func (e *Engine) step(i int) {
	bar := e.series.Bars[i]

	start := i - e.config.WindowSize + 1
	if start < 0 {
		start = 0
	}
	window := e.series.Bars[start : i+1]

	switch e.signal(window) {
	case SignalBuy:
		if e.cash > 0 {
			e.quantity = e.cash / bar.Price
			e.trades = append(e.trades, domain.TradeRecord{
				Side:        domain.TradeBuy,
				Price:       bar.Price,
				Quantity:    e.quantity,
				BarIndex:    i,
				TimestampMs: bar.TimestampMs,
			})
			e.cash = 0
		}
	case SignalSell:
		if e.quantity > 0 {
			e.cash = e.quantity * bar.Price
			e.trades = append(e.trades, domain.TradeRecord{
				Side:        domain.TradeSell,
				Price:       bar.Price,
				Quantity:    e.quantity,
				BarIndex:    i,
				TimestampMs: bar.TimestampMs,
			})
			e.quantity = 0
		}
	}

	e.curve = append(e.curve, domain.EquityPoint{
		BarIndex:    i,
		TimestampMs: bar.TimestampMs,
		Equity:      e.cash + e.quantity*bar.Price,
	})
}
