package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// AnalyticPrice is the closed-form Black-Scholes price of a European call and
// put with the same strike and maturity.
type AnalyticPrice struct {
	Call float64 `json:"call"`
	Put  float64 `json:"put"`
}

// Analytic prices a European call and put with the Black-Scholes formula.
//
//	d1   = (ln(S0/K) + (r + σ²/2)·T) / (σ·√T)
//	d2   = d1 − σ·√T
//	call = S0·Φ(d1) − K·e^{−rT}·Φ(d2)
//	put  = K·e^{−rT}·Φ(−d2) − S0·Φ(−d1)
//
// Invalid parameters yield an *InvalidParameterError. When σ·√T is zero the
// formula is undefined and a *DegenerateInputError is returned instead of an
// intrinsic-value fallback.
func Analytic(p MarketParams) (AnalyticPrice, error) {
	if err := p.Validate(); err != nil {
		return AnalyticPrice{}, err
	}

	d1, d2, err := dTerms(p)
	if err != nil {
		return AnalyticPrice{}, err
	}

	df := p.Discount()
	n := distuv.UnitNormal
	call := p.Spot*n.CDF(d1) - p.Strike*df*n.CDF(d2)
	put := p.Strike*df*n.CDF(-d2) - p.Spot*n.CDF(-d1)

	// rounding can leave a far out-of-the-money leg a few ulps below zero
	return AnalyticPrice{Call: math.Max(call, 0), Put: math.Max(put, 0)}, nil
}

// ParityGap returns (call − put) − (S0 − K·e^{−rT}). It is zero, up to
// rounding, for any consistent pair of European prices.
func ParityGap(p MarketParams, call, put float64) float64 {
	return (call - put) - (p.Spot - p.Strike*p.Discount())
}

// Vega is ∂price/∂σ, identical for the call and the put.
// It is zero for invalid parameters and when σ·√T is zero.
func Vega(p MarketParams) float64 {
	if p.Validate() != nil {
		return 0
	}
	d1, _, err := dTerms(p)
	if err != nil {
		return 0
	}
	return p.Spot * distuv.UnitNormal.Prob(d1) * math.Sqrt(p.Maturity)
}

// ImpliedVolatility solves for the σ at which the Black-Scholes call price
// equals callPrice, using Newton-Raphson from a 20% initial guess.
// p.Volatility is ignored.
func ImpliedVolatility(p MarketParams, callPrice float64) (float64, error) {
	p.Volatility = 0.20
	if err := p.Validate(); err != nil {
		return 0, err
	}

	lower := math.Max(p.Spot-p.Strike*p.Discount(), 0)
	if callPrice <= lower || callPrice >= p.Spot {
		return 0, fmt.Errorf("call price %.6f outside no-arbitrage bounds (%.6f, %.6f)", callPrice, lower, p.Spot)
	}

	const (
		maxIter = 100
		tol     = 1e-8
	)

	for i := 0; i < maxIter; i++ {
		price, err := Analytic(p)
		if err != nil {
			return 0, err
		}
		diff := price.Call - callPrice
		if math.Abs(diff) < tol {
			return p.Volatility, nil
		}

		vega := Vega(p)
		if vega < 1e-10 {
			break
		}
		p.Volatility -= diff / vega

		// Guardrails
		if p.Volatility <= 0 {
			p.Volatility = 1e-4
		}
		if p.Volatility > 5 {
			p.Volatility = 5
		}
	}

	return 0, fmt.Errorf("implied volatility did not converge for call price %.6f", callPrice)
}

func dTerms(p MarketParams) (d1, d2 float64, err error) {
	volSqrtT := p.Volatility * math.Sqrt(p.Maturity)
	if volSqrtT == 0 {
		return 0, 0, &DegenerateInputError{Volatility: p.Volatility, Maturity: p.Maturity}
	}
	d1 = (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*p.Maturity) / volSqrtT
	d2 = d1 - volSqrtT
	return d1, d2, nil
}
