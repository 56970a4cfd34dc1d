package report

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// DefaultBins matches the 100-bin plot of the terminal price distribution.
const DefaultBins = 100

// Histogram is an equal-width binning of a sample. Density is normalised so
// that the bars integrate to one.
type Histogram struct {
	Edges   []float64 `json:"edges"` // len(Counts)+1 bin edges, ascending
	Counts  []int     `json:"counts"`
	Density []float64 `json:"density"`
}

// NewHistogram bins sample into bins equal-width buckets spanning
// [min, max]. The last bucket is closed on the right. A sample with a
// single distinct value v, or a span too narrow to split into bins, is
// binned over [v−h, v+h] with h = max(0.5, |v|·1e-9).
func NewHistogram(sample []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("bins must be at least 1, got %d", bins)
	}
	if len(sample) == 0 {
		return Histogram{}, fmt.Errorf("empty sample")
	}

	lo, hi := sample[0], sample[0]
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Histogram{}, fmt.Errorf("sample contains non-finite value %v", v)
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi || lo+(hi-lo)/float64(bins) <= lo {
		mid := lo + (hi-lo)/2
		half := math.Max(0.5, math.Abs(mid)*1e-9)
		lo, hi = mid-half, mid+half
	}

	width := (hi - lo) / float64(bins)
	if lo+width <= lo {
		return Histogram{}, fmt.Errorf("%d bins are too many for the range [%v, %v]", bins, lo, hi)
	}

	h := Histogram{
		Edges:   make([]float64, bins+1),
		Counts:  make([]int, bins),
		Density: make([]float64, bins),
	}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi

	// stat.Histogram wants sorted data and a right-open last divider
	sorted := slices.Clone(sample)
	slices.Sort(sorted)
	dividers := slices.Clone(h.Edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	n := float64(len(sample))
	for i, c := range counts {
		h.Counts[i] = int(c)
		h.Density[i] = c / (n * width)
	}
	return h, nil
}
