// Package stats provides a unified interface for collecting harness metrics.
package stats

// Metric names used throughout the harness.
const (
	// Pipeline counters.
	MetricEncodes        = "tiffbench_encodes_total"
	MetricEncodeFailures = "tiffbench_encode_failures_total"
	MetricDecodes        = "tiffbench_decodes_total"
	MetricDecodeFailures = "tiffbench_decode_failures_total"

	// Phase timings and artifact sizes.
	MetricEncodeSeconds = "tiffbench_encode_duration_seconds"
	MetricDecodeSeconds = "tiffbench_decode_duration_seconds"
	MetricArtifactBytes = "tiffbench_artifact_bytes"

	// Scratch lifecycle.
	MetricScratchFiles = "tiffbench_scratch_files"
)

// Names lists every metric the harness emits, for backends that register
// metrics up front.
func Names() []string {
	return []string{
		MetricEncodes,
		MetricEncodeFailures,
		MetricDecodes,
		MetricDecodeFailures,
		MetricEncodeSeconds,
		MetricDecodeSeconds,
		MetricArtifactBytes,
		MetricScratchFiles,
	}
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
