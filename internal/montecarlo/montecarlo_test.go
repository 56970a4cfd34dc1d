package montecarlo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-mc/internal/pricing"
)

func referenceParams() pricing.MarketParams {
	return pricing.MarketParams{Spot: 100, Strike: 105, Maturity: 1.0, Rate: 0.05, Volatility: 0.2}
}

// fixedSource replays a fixed list of variates and counts draws.
type fixedSource struct {
	z     []float64
	draws int
}

func (f *fixedSource) NormFloat64() float64 {
	v := f.z[f.draws%len(f.z)]
	f.draws++
	return v
}

func TestSampleTerminalPricesFormula(t *testing.T) {
	p := referenceParams()
	src := &fixedSource{z: []float64{-1.5, 0, 0.7, 2}}

	sample, err := SampleTerminalPrices(p, 4, src)
	require.NoError(t, err)
	require.Len(t, sample, 4)
	assert.Equal(t, 4, src.draws)

	for i, z := range src.z {
		want := p.Spot * math.Exp((p.Rate-0.5*p.Volatility*p.Volatility)*p.Maturity+p.Volatility*math.Sqrt(p.Maturity)*z)
		assert.InDelta(t, want, sample[i], 1e-12)
		assert.Greater(t, sample[i], 0.0)
	}
}

func TestSampleTerminalPricesReproducible(t *testing.T) {
	p := referenceParams()

	a, err := SampleTerminalPrices(p, 10000, NewSource(42))
	require.NoError(t, err)
	b, err := SampleTerminalPrices(p, 10000, NewSource(42))
	require.NoError(t, err)
	c, err := SampleTerminalPrices(p, 10000, NewSource(43))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSampleTerminalPricesZeroVolatility(t *testing.T) {
	p := referenceParams()
	p.Volatility = 0

	sample, err := SampleTerminalPrices(p, 1000, NewSource(7))
	require.NoError(t, err)

	forward := p.Spot * math.Exp(p.Rate*p.Maturity)
	for _, st := range sample {
		require.Equal(t, forward, st)
	}

	est, err := EstimatePrices(sample, p)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-p.Rate*p.Maturity)*math.Max(forward-p.Strike, 0), est.Call, 1e-12)
	assert.InDelta(t, 0, est.CallStdErr, 1e-12)
	assert.Equal(t, 0.0, est.PutStdErr)
}

func TestInvalidInputRejectedBeforeSampling(t *testing.T) {
	cases := []struct {
		name  string
		mod   func(*pricing.MarketParams)
		paths int
	}{
		{"zero strike", func(p *pricing.MarketParams) { p.Strike = 0 }, 100},
		{"zero paths", func(p *pricing.MarketParams) {}, 0},
		{"negative volatility", func(p *pricing.MarketParams) { p.Volatility = -0.1 }, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := referenceParams()
			tc.mod(&p)
			src := &fixedSource{z: []float64{0}}

			_, err := SampleTerminalPrices(p, tc.paths, src)
			require.Error(t, err)
			assert.ErrorIs(t, err, pricing.ErrInvalidParameter)
			assert.Zero(t, src.draws)

			_, err = SampleTerminalPricesParallel(context.Background(), p, tc.paths, 1, 4)
			assert.ErrorIs(t, err, pricing.ErrInvalidParameter)
		})
	}
}

func TestEstimatePricesPayoffs(t *testing.T) {
	p := pricing.MarketParams{Spot: 100, Strike: 100, Maturity: 1, Rate: 0.05, Volatility: 0.2}
	sample := Sample{90, 100, 110, 120}

	est, err := EstimatePrices(sample, p)
	require.NoError(t, err)

	df := math.Exp(-0.05)
	assert.InDelta(t, df*(0+0+10+20)/4, est.Call, 1e-12)
	assert.InDelta(t, df*(10+0+0+0)/4, est.Put, 1e-12)
	assert.Equal(t, 4, est.Paths)

	// call payoffs 0,0,10,20: mean 7.5, sample variance 275/3
	assert.InDelta(t, df*math.Sqrt(275.0/3/4), est.CallStdErr, 1e-12)
}

func TestEstimatePricesSinglePath(t *testing.T) {
	est, err := EstimatePrices(Sample{110}, referenceParams())
	require.NoError(t, err)
	assert.Greater(t, est.Call, 0.0)
	assert.Equal(t, 0.0, est.Put)
	assert.Equal(t, 0.0, est.CallStdErr)
}

func TestEstimatePricesEmptySample(t *testing.T) {
	_, err := EstimatePrices(nil, referenceParams())
	assert.ErrorIs(t, err, pricing.ErrInvalidParameter)
}

func TestConfidenceInterval(t *testing.T) {
	est := Estimate{Call: 8, Put: 0.01, CallStdErr: 0.1, PutStdErr: 0.02}

	call, put, err := est.ConfidenceInterval(0.99)
	require.NoError(t, err)
	assert.InDelta(t, 8-2.5758293*0.1, call.Lo, 1e-6)
	assert.InDelta(t, 8+2.5758293*0.1, call.Hi, 1e-6)
	assert.True(t, call.Contains(8))
	assert.Equal(t, 0.0, put.Lo)

	call, _, err = est.ConfidenceInterval(0.95)
	require.NoError(t, err)
	assert.InDelta(t, 8+1.959964*0.1, call.Hi, 1e-6)
}

func TestConfidenceIntervalRejectsBadLevel(t *testing.T) {
	est := Estimate{Call: 8, CallStdErr: 0.1}
	for _, level := range []float64{0, 1, 1.5, -1, -2, math.NaN()} {
		assert.NotPanics(t, func() {
			_, _, err := est.ConfidenceInterval(level)
			assert.ErrorIs(t, err, pricing.ErrInvalidParameter, "level=%v", level)
		})
	}
}

func TestReferenceScenario(t *testing.T) {
	p := referenceParams()

	analytic, err := pricing.Analytic(p)
	require.NoError(t, err)

	sample, err := SampleTerminalPrices(p, 100000, NewSource(42))
	require.NoError(t, err)
	est, err := EstimatePrices(sample, p)
	require.NoError(t, err)

	assert.InDelta(t, 8.02, analytic.Call, 0.005)
	assert.InDelta(t, 7.90, analytic.Put, 0.005)
	assert.InDelta(t, analytic.Call, est.Call, 0.10)
	assert.InDelta(t, analytic.Put, est.Put, 0.10)
	assert.GreaterOrEqual(t, est.Call, 0.0)
	assert.GreaterOrEqual(t, est.Put, 0.0)
}

func TestConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("million-path run")
	}
	p := referenceParams()
	analytic, err := pricing.Analytic(p)
	require.NoError(t, err)

	var errs, stdErrs []float64
	for _, n := range []int{1_000, 10_000, 100_000, 1_000_000} {
		sample, err := SampleTerminalPrices(p, n, NewSource(2024))
		require.NoError(t, err)
		est, err := EstimatePrices(sample, p)
		require.NoError(t, err)

		diff := math.Abs(est.Call - analytic.Call)
		// 4 standard errors keeps this deterministic test far from flaky
		assert.LessOrEqual(t, diff, 4*est.CallStdErr, "n=%d diff=%.5f se=%.5f", n, diff, est.CallStdErr)
		assert.LessOrEqual(t, math.Abs(est.Put-analytic.Put), 4*est.PutStdErr, "n=%d", n)

		errs = append(errs, diff)
		stdErrs = append(stdErrs, est.CallStdErr)
	}

	// standard error scales as 1/√N: a 1000x larger sample is ~31.6x tighter
	assert.Less(t, stdErrs[3], stdErrs[0]/20)
	assert.Less(t, errs[3], 0.06)
}

func TestParallelIndependentOfWorkers(t *testing.T) {
	p := referenceParams()
	ctx := context.Background()
	n := 3*BlockSize + 123

	base, err := SampleTerminalPricesParallel(ctx, p, n, 99, 1)
	require.NoError(t, err)
	require.Len(t, base, n)

	for _, workers := range []int{2, 3, 8} {
		got, err := SampleTerminalPricesParallel(ctx, p, n, 99, workers)
		require.NoError(t, err)
		assert.Equal(t, base, got, "workers=%d", workers)
	}
}

func TestParallelMatchesSerialWithinOneBlock(t *testing.T) {
	p := referenceParams()

	serial, err := SampleTerminalPrices(p, 500, NewSource(5))
	require.NoError(t, err)
	parallel, err := SampleTerminalPricesParallel(context.Background(), p, 500, 5, 4)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SampleTerminalPricesParallel(ctx, referenceParams(), 4*BlockSize, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatorRun(t *testing.T) {
	seed := uint64(42)
	sim, err := NewSimulator(Config{Paths: 50000, Seed: &seed, Workers: 4})
	require.NoError(t, err)

	a, err := sim.Run(context.Background(), referenceParams())
	require.NoError(t, err)
	b, err := sim.Run(context.Background(), referenceParams())
	require.NoError(t, err)

	assert.Equal(t, seed, a.Seed)
	assert.Len(t, a.Sample, 50000)
	assert.Equal(t, a.Estimate, b.Estimate)
	assert.Equal(t, 50000, a.Estimate.Paths)
}

func TestSimulatorSampleIndependentOfWorkers(t *testing.T) {
	seed := uint64(42)
	n := 2*BlockSize + 777

	var base Result
	for i, workers := range []int{0, 1, 2, 8} {
		sim, err := NewSimulator(Config{Paths: n, Seed: &seed, Workers: workers})
		require.NoError(t, err)
		res, err := sim.Run(context.Background(), referenceParams())
		require.NoError(t, err)
		require.Len(t, res.Sample, n)

		if i == 0 {
			base = res
			continue
		}
		assert.Equal(t, base.Sample, res.Sample, "workers=%d", workers)
		assert.Equal(t, base.Estimate, res.Estimate, "workers=%d", workers)
	}
}

func TestSimulatorRunWithoutSeed(t *testing.T) {
	sim, err := NewSimulator(Config{Paths: 10})
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), referenceParams())
	require.NoError(t, err)

	// the drawn seed must replay the same sample
	replay, err := SampleTerminalPrices(referenceParams(), 10, NewSource(res.Seed))
	require.NoError(t, err)
	assert.Equal(t, replay, res.Sample)
}

func TestSimulatorRejectsInvalid(t *testing.T) {
	_, err := NewSimulator(Config{Paths: 0})
	assert.ErrorIs(t, err, pricing.ErrInvalidParameter)

	_, err = NewSimulator(Config{Paths: 10, Workers: -1})
	assert.ErrorIs(t, err, pricing.ErrInvalidParameter)

	sim, err := NewSimulator(Config{Paths: 10})
	require.NoError(t, err)
	p := referenceParams()
	p.Strike = 0
	_, err = sim.Run(context.Background(), p)
	assert.ErrorIs(t, err, pricing.ErrInvalidParameter)
}
