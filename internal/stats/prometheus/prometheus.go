// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geobench/tiffbench/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics. The fixed
// harness metric set is registered up front; unknown metric names are
// silently dropped.
type Collector struct {
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	c := &Collector{
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}

	for _, name := range stats.Names() {
		switch {
		case strings.HasSuffix(name, "_total"):
			counter := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
			registry.MustRegister(counter)
			c.counters[name] = counter
		case strings.HasSuffix(name, "_seconds"):
			histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    name,
				Help:    name,
				Buckets: prometheus.DefBuckets,
			})
			registry.MustRegister(histogram)
			c.histograms[name] = histogram
		case strings.HasSuffix(name, "_bytes"):
			histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    name,
				Help:    name,
				Buckets: prometheus.ExponentialBuckets(1024, 4, 12),
			})
			registry.MustRegister(histogram)
			c.histograms[name] = histogram
		default:
			gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: name})
			registry.MustRegister(gauge)
			c.gauges[name] = gauge
		}
	}

	return c
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	if counter, ok := c.counters[name]; ok {
		counter.Add(float64(delta))
	}
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	if gauge, ok := c.gauges[name]; ok {
		gauge.Set(float64(value))
	}
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	if histogram, ok := c.histograms[name]; ok {
		histogram.Observe(value)
	}
}
