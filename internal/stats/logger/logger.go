// Package logger provides a stats collector that writes every metric event to
// a zap logger, handy for eyeballing a benchmark run without a metrics
// backend.
package logger

import (
	"go.uber.org/zap"

	"github.com/geobench/tiffbench/internal/stats"
)

// Collector implements stats.Collector by emitting one debug log line per
// metric event. Aggregation is left to whatever reads the logs; the harness
// emits few enough events per run that raw lines stay readable.
type Collector struct {
	log *zap.Logger
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a collector that logs through log.
// If log is nil, a no-op logger is used.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

// IncCounter logs a counter increment, e.g. a finished encode or decode.
func (c *Collector) IncCounter(name string, delta int64) {
	c.log.Debug("metric counter",
		zap.String("metric", name),
		zap.Int64("delta", delta),
	)
}

// SetGauge logs a gauge value, e.g. the current scratch file count.
func (c *Collector) SetGauge(name string, value int64) {
	c.log.Debug("metric gauge",
		zap.String("metric", name),
		zap.Int64("value", value),
	)
}

// ObserveHistogram logs a sampled value, e.g. a phase duration or artifact
// size.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.log.Debug("metric sample",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}
