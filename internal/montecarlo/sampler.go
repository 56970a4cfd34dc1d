package montecarlo

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/pricing"
)

// BlockSize is the number of paths drawn from one stream by the parallel
// sampler. Changing it changes the samples produced for a given seed.
const BlockSize = 16384

// Sample holds simulated terminal prices, one per path, in draw order.
type Sample []float64

// gbm holds the per-call constants of S_T = S0·exp(drift + vol·Z).
type gbm struct {
	spot  float64
	drift float64 // (r − σ²/2)·T
	vol   float64 // σ·√T
}

func newGBM(p pricing.MarketParams) gbm {
	return gbm{
		spot:  p.Spot,
		drift: (p.Rate - 0.5*p.Volatility*p.Volatility) * p.Maturity,
		vol:   p.Volatility * math.Sqrt(p.Maturity),
	}
}

func (g gbm) terminal(z float64) float64 {
	return g.spot * math.Exp(g.drift+g.vol*z)
}

func (g gbm) fill(dst []float64, src NormalSource) {
	for i := range dst {
		dst[i] = g.terminal(src.NormFloat64())
	}
}

// SampleTerminalPrices draws n terminal prices under the risk-neutral measure,
// consuming exactly one variate from src per path.
//
// With σ=0 every path equals S0·e^{rT}.
func SampleTerminalPrices(p pricing.MarketParams, n int, src NormalSource) (Sample, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validatePaths(n); err != nil {
		return nil, err
	}

	out := make(Sample, n)
	newGBM(p).fill(out, src)

	logger.Tracef("sampled %d terminal prices spot=%.4f vol=%.4f", n, p.Spot, p.Volatility)
	return out, nil
}

// SampleTerminalPricesParallel draws n terminal prices on up to workers
// goroutines. Paths are cut into blocks of BlockSize; block b draws from
// stream b of seed, so the result depends only on (p, n, seed) and never on
// workers. For n ≤ BlockSize the result equals
// SampleTerminalPrices(p, n, NewSource(seed)).
func SampleTerminalPricesParallel(ctx context.Context, p pricing.MarketParams, n int, seed uint64, workers int) (Sample, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validatePaths(n); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	out := make(Sample, n)
	model := newGBM(p)
	blocks := (n + BlockSize - 1) / BlockSize

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for b := 0; b < blocks; b++ {
		lo := b * BlockSize
		hi := min(lo+BlockSize, n)
		stream := uint64(b)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model.fill(out[lo:hi], newStream(seed, stream))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Tracef("sampled %d terminal prices in %d blocks on %d workers", n, blocks, workers)
	return out, nil
}

func validatePaths(n int) error {
	if n < 1 {
		return &pricing.InvalidParameterError{Field: "paths", Value: float64(n), Reason: "must be at least 1"}
	}
	return nil
}
