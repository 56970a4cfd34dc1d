// Package montecarlo estimates European option prices by sampling terminal
// prices of a geometric Brownian motion and averaging discounted payoffs.
//
// Randomness is always injected: callers own a NormalSource and pass it in,
// so concurrent simulations never share seed state.
package montecarlo

import "math/rand/v2"

// NormalSource yields independent standard-normal variates.
// *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type NormalSource interface {
	NormFloat64() float64
}

// NewSource returns a PCG-backed source seeded with seed. Two sources built
// from the same seed produce identical sequences.
func NewSource(seed uint64) *rand.Rand {
	return newStream(seed, 0)
}

// newStream returns the source for one independent stream of a seed.
// Stream 0 is the stream NewSource uses.
func newStream(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
