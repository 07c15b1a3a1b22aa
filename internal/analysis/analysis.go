// Package analysis provides summary statistics over benchmark samples.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes one set of measurement samples.
type Summary struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Describe computes summary statistics for samples. An empty input yields
// the zero Summary. StdDev is zero for fewer than two samples.
func Describe(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	s := Summary{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// Ratio returns value as a percentage of baseline, or zero when the baseline
// is unusable.
func Ratio(value, baseline int64) float64 {
	if baseline <= 0 {
		return 0
	}
	return float64(value) / float64(baseline) * 100
}
