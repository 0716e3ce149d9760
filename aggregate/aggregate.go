package aggregate

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/anchorgo/model"
	"gonum.org/v1/gonum/stat"
)

// Func combines the values of one dimension into a single value.
// Implementations must not modify values. Empty input returns NaN.
type Func func(values []float64) float64

// Median returns the middle value, averaging the two middle values for even counts.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mean returns the arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Quantile returns an aggregator for the empirical p-quantile, p in [0, 1].
func Quantile(p float64) (Func, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("aggregate: quantile %v out of range [0, 1]", p)
	}

	return func(values []float64) float64 {
		if len(values) == 0 {
			return math.NaN()
		}
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}, nil
}

// Centroid applies fn to the widths and to the heights of members independently.
func Centroid(fn Func, members []model.Size) model.Size {
	widths := make([]float64, len(members))
	heights := make([]float64, len(members))
	for i, m := range members {
		widths[i] = m.Width
		heights[i] = m.Height
	}

	return model.Size{
		Width:  fn(widths),
		Height: fn(heights),
	}
}
