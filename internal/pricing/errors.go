package pricing

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. The concrete errors below carry the detail.
var (
	ErrInvalidParameter = errors.New("pricing: invalid parameter")
	ErrDegenerateInput  = errors.New("pricing: degenerate input")
)

// InvalidParameterError reports a market or simulation parameter outside its
// domain. It is returned by validation, before any sampling or pricing runs.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidParameter) match.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// DegenerateInputError is returned by the closed-form pricer when σ·√T is zero
// and d1/d2 are undefined.
type DegenerateInputError struct {
	Volatility float64
	Maturity   float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("black-scholes undefined for sigma=%g T=%g: sigma*sqrt(T) is zero", e.Volatility, e.Maturity)
}

// Is lets errors.Is(err, ErrDegenerateInput) match.
func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}
