// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crypto-quant-lab/internal/domain"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engine metrics
	RiskReportsComputed   prometheus.Counter
	SimulationPathsRun    prometheus.Counter
	StressScenariosRun    prometheus.Counter
	BacktestsRun          prometheus.Counter
	BacktestTradesOpened  prometheus.Counter
	SizingRecommendations prometheus.Counter

	// Latency metrics
	AnalysisDuration *prometheus.HistogramVec

	// Error metrics
	AnalysisErrors *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAnalysis prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "crypto_quant_lab"
	}

	return &Metrics{
		RiskReportsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "reports_computed_total",
			Help:      "Total number of risk reports computed",
		}),
		SimulationPathsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "montecarlo",
			Name:      "paths_run_total",
			Help:      "Total number of Monte Carlo price paths simulated",
		}),
		StressScenariosRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stress",
			Name:      "scenarios_run_total",
			Help:      "Total number of stress scenarios applied",
		}),
		BacktestsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_total",
			Help:      "Total number of backtest runs completed",
		}),
		BacktestTradesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trades_total",
			Help:      "Total number of trades executed across backtests",
		}),
		SizingRecommendations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sizing",
			Name:      "recommendations_total",
			Help:      "Total number of position size recommendations produced",
		}),

		AnalysisDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analysis_duration_seconds",
			Help:      "Analysis duration in seconds by engine",
			Buckets:   prometheus.DefBuckets,
		}, []string{"engine"}),

		AnalysisErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analysis_errors_total",
			Help:      "Total number of analysis errors by engine and kind",
		}, []string{"engine", "kind"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulAnalysis: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRiskReport increments the risk reports computed counter.
func RecordRiskReport(durationSeconds float64) {
	DefaultMetrics.RiskReportsComputed.Inc()
	DefaultMetrics.AnalysisDuration.WithLabelValues("risk").Observe(durationSeconds)
}

// RecordSimulation records a Monte Carlo run of n paths.
func RecordSimulation(paths int, durationSeconds float64) {
	DefaultMetrics.SimulationPathsRun.Add(float64(paths))
	DefaultMetrics.AnalysisDuration.WithLabelValues("montecarlo").Observe(durationSeconds)
}

// RecordStressRun records a stress test over n scenarios.
func RecordStressRun(scenarios int, durationSeconds float64) {
	DefaultMetrics.StressScenariosRun.Add(float64(scenarios))
	DefaultMetrics.AnalysisDuration.WithLabelValues("stress").Observe(durationSeconds)
}

// RecordBacktest records a completed backtest run.
func RecordBacktest(trades int, durationSeconds float64) {
	DefaultMetrics.BacktestsRun.Inc()
	DefaultMetrics.BacktestTradesOpened.Add(float64(trades))
	DefaultMetrics.AnalysisDuration.WithLabelValues("backtest").Observe(durationSeconds)
}

// RecordSizing increments the sizing recommendations counter.
func RecordSizing() {
	DefaultMetrics.SizingRecommendations.Inc()
}

// RecordAnalysisError records an analysis error by engine and error kind.
func RecordAnalysisError(engine, kind string) {
	DefaultMetrics.AnalysisErrors.WithLabelValues(engine, kind).Inc()
}

// KindLabel maps an error to its metric label.
func KindLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, domain.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, domain.ErrDivisionGuard):
		return "division_guard"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "unknown"
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
