package algo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/snowline/s1snow/schema"
)

// median returns the middle of the valid values, averaging the two central ones
// for even counts. It sorts its argument in place. No valid values give NaN.
func median(values []float64) float64 {
	valid := values[:0]
	for _, v := range values {
		if schema.IsValid(v) {
			valid = append(valid, v)
		}
	}
	n := len(valid)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(valid)
	if n%2 == 1 {
		return valid[n/2]
	}
	return (valid[n/2-1] + valid[n/2]) / 2
}

// nanMean averages the valid values. No valid values give NaN.
func nanMean(values []float64) float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if schema.IsValid(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// minMax returns the smallest and largest valid values; ok is false when there are none.
func minMax(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !schema.IsValid(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}
