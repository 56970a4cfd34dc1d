package pricing

import "math"

// MarketParams are the five inputs shared by the simulator and the
// closed-form pricer.
type MarketParams struct {
	Spot       float64 `json:"spot" yaml:"spot"`             // S0, current price of the underlying
	Strike     float64 `json:"strike" yaml:"strike"`         // K
	Maturity   float64 `json:"maturity" yaml:"maturity"`     // T, in years
	Rate       float64 `json:"rate" yaml:"rate"`             // r, continuously compounded risk-free rate
	Volatility float64 `json:"volatility" yaml:"volatility"` // σ, annualized
}

// Validate checks S0>0, K>0, T>0 and σ≥0. Every field must be finite.
func (p MarketParams) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"spot", p.Spot},
		{"strike", p.Strike},
		{"maturity", p.Maturity},
		{"rate", p.Rate},
		{"volatility", p.Volatility},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &InvalidParameterError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}

	switch {
	case p.Spot <= 0:
		return &InvalidParameterError{Field: "spot", Value: p.Spot, Reason: "must be positive"}
	case p.Strike <= 0:
		return &InvalidParameterError{Field: "strike", Value: p.Strike, Reason: "must be positive"}
	case p.Maturity <= 0:
		return &InvalidParameterError{Field: "maturity", Value: p.Maturity, Reason: "must be positive"}
	case p.Volatility < 0:
		return &InvalidParameterError{Field: "volatility", Value: p.Volatility, Reason: "must not be negative"}
	}
	return nil
}

// Discount returns e^{-rT}.
func (p MarketParams) Discount() float64 {
	return math.Exp(-p.Rate * p.Maturity)
}

// Forward returns S0·e^{rT}, the terminal price every path reaches when σ=0.
func (p MarketParams) Forward() float64 {
	return p.Spot * math.Exp(p.Rate*p.Maturity)
}
