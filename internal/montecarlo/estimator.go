package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/contactkeval/option-mc/internal/pricing"
)

// Estimate is the discounted Monte Carlo price of a call and a put, with the
// standard error of each sample mean.
type Estimate struct {
	Call       float64 `json:"call"`
	Put        float64 `json:"put"`
	CallStdErr float64 `json:"call_std_err"`
	PutStdErr  float64 `json:"put_std_err"`
	Paths      int     `json:"paths"`
}

// Interval is a two-sided confidence interval around a price.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Contains reports whether x lies in [Lo, Hi].
func (iv Interval) Contains(x float64) bool {
	return x >= iv.Lo && x <= iv.Hi
}

// ConfidenceInterval returns the normal-approximation intervals for the call
// and put at the given two-sided level, e.g. 0.99. A level outside (0, 1)
// yields a *pricing.InvalidParameterError.
// Lower bounds are floored at zero since prices cannot be negative.
func (e Estimate) ConfidenceInterval(level float64) (call, put Interval, err error) {
	if !(level > 0 && level < 1) {
		return Interval{}, Interval{}, &pricing.InvalidParameterError{Field: "level", Value: level, Reason: "must be in (0, 1)"}
	}
	z := distuv.UnitNormal.Quantile(0.5 + level/2)
	call = Interval{Lo: math.Max(e.Call-z*e.CallStdErr, 0), Hi: e.Call + z*e.CallStdErr}
	put = Interval{Lo: math.Max(e.Put-z*e.PutStdErr, 0), Hi: e.Put + z*e.PutStdErr}
	return call, put, nil
}

// EstimatePrices turns terminal prices into discounted mean payoffs:
//
//	call = e^{−rT}·mean(max(S_T − K, 0))
//	put  = e^{−rT}·mean(max(K − S_T, 0))
//
// Standard errors use the N−1 sample variance and are zero for a single path.
// Both legs are computed together; an error means neither is returned.
func EstimatePrices(sample Sample, p pricing.MarketParams) (Estimate, error) {
	if err := p.Validate(); err != nil {
		return Estimate{}, err
	}
	n := len(sample)
	if err := validatePaths(n); err != nil {
		return Estimate{}, err
	}

	calls := make([]float64, n)
	puts := make([]float64, n)
	for i, st := range sample {
		calls[i] = math.Max(st-p.Strike, 0)
		puts[i] = math.Max(p.Strike-st, 0)
	}
	callMean, callVar := stat.MeanVariance(calls, nil)
	putMean, putVar := stat.MeanVariance(puts, nil)

	df := p.Discount()
	est := Estimate{
		Call:  df * callMean,
		Put:   df * putMean,
		Paths: n,
	}
	if n > 1 {
		est.CallStdErr = df * stdErr(callVar, n)
		est.PutStdErr = df * stdErr(putVar, n)
	}
	return est, nil
}

// stdErr is √(variance/n). The compensated variance of identical payoffs
// can round to a tiny negative, which is read as zero.
func stdErr(variance float64, n int) float64 {
	return math.Sqrt(math.Max(variance, 0) / float64(n))
}
