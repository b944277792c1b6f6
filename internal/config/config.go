// Package config loads engine defaults from a YAML file. Every field has
// a working default so the CLIs run without any config at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds tunable parameters for the analytics engines.
type Config struct {
	Risk       RiskSection       `yaml:"risk"`
	MonteCarlo MonteCarloSection `yaml:"montecarlo"`
	Backtest   BacktestSection   `yaml:"backtest"`
	Sizing     SizingSection     `yaml:"sizing"`
	Storage    StorageSection    `yaml:"storage"`
}

// RiskSection configures the risk metrics engine.
type RiskSection struct {
	ConfidenceLevel    float64 `yaml:"confidence_level"`
	RiskFreeRate       float64 `yaml:"risk_free_rate"`
	DefaultVolatility  float64 `yaml:"default_volatility"`
	DefaultCorrelation float64 `yaml:"default_correlation"`
}

// MonteCarloSection configures the price path simulator.
type MonteCarloSection struct {
	Simulations int `yaml:"simulations"`
	HorizonDays int `yaml:"horizon_days"`
	Workers     int `yaml:"workers"`
}

// BacktestSection configures the backtest engine.
type BacktestSection struct {
	InitialCapital float64 `yaml:"initial_capital"`
	WindowSize     int     `yaml:"window_size"`
}

// SizingSection configures the position sizer.
type SizingSection struct {
	RiskPerTrade float64 `yaml:"risk_per_trade"`
}

// StorageSection selects the price-history backend.
type StorageSection struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Risk: RiskSection{
			ConfidenceLevel:    0.95,
			RiskFreeRate:       0.05,
			DefaultVolatility:  0.80,
			DefaultCorrelation: 0.50,
		},
		MonteCarlo: MonteCarloSection{
			Simulations: 1000,
			HorizonDays: 30,
			Workers:     0, // 0 lets the simulator pick GOMAXPROCS
		},
		Backtest: BacktestSection{
			InitialCapital: 10000,
			WindowSize:     30,
		},
		Sizing: SizingSection{
			RiskPerTrade: 0.02,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engines would refuse anyway, so a bad
// config fails at startup instead of at first use.
func (c *Config) Validate() error {
	if c.Risk.ConfidenceLevel <= 0 || c.Risk.ConfidenceLevel >= 1 {
		return fmt.Errorf("risk.confidence_level must be in (0, 1), got %v", c.Risk.ConfidenceLevel)
	}
	if c.Risk.DefaultVolatility <= 0 {
		return fmt.Errorf("risk.default_volatility must be positive, got %v", c.Risk.DefaultVolatility)
	}
	if c.Risk.DefaultCorrelation < -1 || c.Risk.DefaultCorrelation > 1 {
		return fmt.Errorf("risk.default_correlation must be in [-1, 1], got %v", c.Risk.DefaultCorrelation)
	}
	if c.MonteCarlo.Simulations <= 0 {
		return fmt.Errorf("montecarlo.simulations must be positive, got %d", c.MonteCarlo.Simulations)
	}
	if c.MonteCarlo.HorizonDays <= 0 {
		return fmt.Errorf("montecarlo.horizon_days must be positive, got %d", c.MonteCarlo.HorizonDays)
	}
	if c.MonteCarlo.Workers < 0 {
		return fmt.Errorf("montecarlo.workers cannot be negative, got %d", c.MonteCarlo.Workers)
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive, got %v", c.Backtest.InitialCapital)
	}
	if c.Backtest.WindowSize <= 0 {
		return fmt.Errorf("backtest.window_size must be positive, got %d", c.Backtest.WindowSize)
	}
	if c.Sizing.RiskPerTrade <= 0 || c.Sizing.RiskPerTrade > 1 {
		return fmt.Errorf("sizing.risk_per_trade must be in (0, 1], got %v", c.Sizing.RiskPerTrade)
	}
	return nil
}
