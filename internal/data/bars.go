// Package data derives market inputs from local historical price files.
package data

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultVolatility is used when there are too few closes to measure one.
const DefaultVolatility = 0.30

// tradingDays annualizes daily log-return volatility.
const tradingDays = 252.0

// ErrNoBars is returned when a snapshot is requested from an empty series.
var ErrNoBars = errors.New("data: no bars")

// Bar simplified OHLC
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
	Vol   float64
}

// Snapshot returns the spot (last close) and annualized historical
// volatility of bars, which must be in date order.
func Snapshot(bars []Bar) (spot, volatility float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrNoBars
	}
	return bars[len(bars)-1].Close, AnnualizedVolatility(closes(bars)), nil
}

// AnnualizedVolatility is the sample standard deviation of daily log
// returns scaled by √252. Fewer than two closes yield DefaultVolatility.
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return DefaultVolatility
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	if len(rets) < 2 {
		return DefaultVolatility
	}

	// compensated variance of equal returns may round below zero
	_, variance := stat.MeanVariance(rets, nil)
	return math.Sqrt(math.Max(variance, 0)) * math.Sqrt(tradingDays)
}

func closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
