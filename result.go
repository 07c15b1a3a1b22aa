package tiffbench

import (
	"time"

	"github.com/geobench/tiffbench/internal/catalog"
	"github.com/geobench/tiffbench/internal/engine"
)

// Timing is the measured duration cell for one variant and one phase. A
// failed measurement carries its reason in Err and holds no samples; it
// still occupies its catalog position so rows never shift.
type Timing struct {
	Samples []time.Duration
	Err     error
}

// OK reports whether the measurement succeeded.
func (t Timing) OK() bool {
	return t.Err == nil && len(t.Samples) > 0
}

// Seconds returns the samples converted to float64 seconds.
func (t Timing) Seconds() []float64 {
	secs := make([]float64, len(t.Samples))
	for i, d := range t.Samples {
		secs[i] = d.Seconds()
	}
	return secs
}

// Size is the measured artifact size cell for one variant.
type Size struct {
	Bytes int64
	Err   error
}

// OK reports whether the measurement succeeded.
func (s Size) OK() bool {
	return s.Err == nil
}

// RunReport holds the outcome of one benchmark run: the catalog and three
// measurement rows, all position-aligned. Rows always have the same length
// as Variants, with failed cells in place.
type RunReport struct {
	Source   string
	Variants []catalog.Variant
	Sizes    []Size
	Writes   []Timing
	Reads    []Timing
	Trials   int
	Elapsed  time.Duration
}

// Columns returns the variant display names, in catalog order.
func (r *RunReport) Columns() []string {
	return catalog.Displays(r.Variants)
}

// FailureCount returns the number of catalog positions with at least one
// failed cell.
func (r *RunReport) FailureCount() int {
	var n int
	for i := range r.Variants {
		if !r.Sizes[i].OK() || !r.Writes[i].OK() || !r.Reads[i].OK() {
			n++
		}
	}
	return n
}

// Failed reports whether any variant could not be fully measured.
func (r *RunReport) Failed() bool {
	return r.FailureCount() > 0
}

// BaselineBytes returns the size of the first successfully measured
// uncompressed variant, or zero if none exists. Compression ratios are
// computed against it.
func (r *RunReport) BaselineBytes() int64 {
	for i, v := range r.Variants {
		if v.Compression == engine.CompressionNone && r.Sizes[i].OK() {
			return r.Sizes[i].Bytes
		}
	}
	return 0
}
