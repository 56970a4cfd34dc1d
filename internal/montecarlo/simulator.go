package montecarlo

import (
	"context"
	"fmt"
	"time"

	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/pricing"
)

// Config controls one simulation run.
type Config struct {
	Paths   int     // number of simulated paths, N ≥ 1
	Seed    *uint64 // nil draws a seed from the clock
	Workers int     // sampling goroutines; 0 means 1. Never changes the sample.
}

// Validate reports a *pricing.InvalidParameterError for a bad config.
func (c Config) Validate() error {
	if err := validatePaths(c.Paths); err != nil {
		return err
	}
	if c.Workers < 0 {
		return &pricing.InvalidParameterError{Field: "workers", Value: float64(c.Workers), Reason: "must not be negative"}
	}
	return nil
}

// Result is the outcome of one Simulator run.
type Result struct {
	Sample   Sample   `json:"-"`
	Estimate Estimate `json:"estimate"`
	Seed     uint64   `json:"seed"`
}

// Simulator prices European options by Monte Carlo.
type Simulator struct {
	cfg Config
}

// NewSimulator validates cfg and returns a Simulator for it.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

// Run samples terminal prices for p and estimates call and put prices.
// Parameters are validated before any variate is drawn. Paths are always
// drawn in the block layout of SampleTerminalPricesParallel, so the sample
// for a given seed and path count is the same for every worker count.
func (s *Simulator) Run(ctx context.Context, p pricing.MarketParams) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	seed := s.seed()
	logger.Debugf("simulating %d paths seed=%d workers=%d", s.cfg.Paths, seed, s.cfg.Workers)

	sample, err := SampleTerminalPricesParallel(ctx, p, s.cfg.Paths, seed, max(s.cfg.Workers, 1))
	if err != nil {
		return Result{}, fmt.Errorf("sample terminal prices: %w", err)
	}

	est, err := EstimatePrices(sample, p)
	if err != nil {
		return Result{}, fmt.Errorf("estimate prices: %w", err)
	}

	logger.Debugf("estimate call=%.6f±%.6f put=%.6f±%.6f", est.Call, est.CallStdErr, est.Put, est.PutStdErr)
	return Result{Sample: sample, Estimate: est, Seed: seed}, nil
}

func (s *Simulator) seed() uint64 {
	if s.cfg.Seed != nil {
		return *s.cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}
