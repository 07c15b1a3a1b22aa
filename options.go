package tiffbench

import (
	"go.uber.org/zap"

	"github.com/geobench/tiffbench/internal/catalog"
	"github.com/geobench/tiffbench/internal/engine"
	"github.com/geobench/tiffbench/internal/engine/gtiff"
	"github.com/geobench/tiffbench/internal/stats"
)

// Option configures a Runner.
type Option interface {
	apply(*options)
}

// options holds the runner configuration.
type options struct {
	engine     engine.Engine
	catalog    []catalog.Variant
	trials     int
	keep       bool
	scratchDir string
	stats      stats.Collector
	logger     *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		engine:  gtiff.New(),
		catalog: catalog.Default(),
		trials:  1,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithEngine sets the raster codec engine to drive.
// If not set, the built-in pure-Go TIFF engine is used.
func WithEngine(e engine.Engine) Option {
	return optionFunc(func(o *options) {
		o.engine = e
	})
}

// WithCatalog sets the variant catalog to benchmark.
// If not set, the fixed six-variant default catalog is used.
func WithCatalog(variants []catalog.Variant) Option {
	return optionFunc(func(o *options) {
		o.catalog = variants
	})
}

// WithTrials sets how many times each timed phase runs per variant.
// Default is 1. Reports show per-variant means; more trials tighten them.
func WithTrials(n int) Option {
	return optionFunc(func(o *options) {
		o.trials = n
	})
}

// WithKeepScratch disables scratch teardown, leaving every artifact on disk
// after the run. Intended for debugging artifacts, not regular use.
func WithKeepScratch(keep bool) Option {
	return optionFunc(func(o *options) {
		o.keep = keep
	})
}

// WithScratchDir overrides the scratch directory location. If not set, the
// directory is "tmp" alongside the source image.
func WithScratchDir(dir string) Option {
	return optionFunc(func(o *options) {
		o.scratchDir = dir
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
