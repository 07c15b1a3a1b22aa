// Package tiffbenchfx provides an fx module for a benchmark runner.
package tiffbenchfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/geobench/tiffbench"
	"github.com/geobench/tiffbench/internal/catalog"
	"github.com/geobench/tiffbench/internal/stats"
	"github.com/geobench/tiffbench/internal/stats/logger"
)

// Config holds configuration for the benchmark runner.
type Config struct {
	// Trials is how many timed runs each variant and phase gets.
	// Default is 1.
	Trials int

	// KeepScratch disables scratch teardown after a run.
	KeepScratch bool

	// CatalogPath is an optional YAML variant catalog. When empty the
	// built-in six-variant catalog is used.
	CatalogPath string
}

// Module provides a benchmark runner.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("tiffbench",
	fx.Provide(
		newStatsCollector,
		newRunner,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("tiffbench.stats"))
}

// Params holds dependencies for creating the runner.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
}

// Result holds the provided runner.
type Result struct {
	fx.Out

	Runner *tiffbench.Runner
}

func newRunner(p Params) (Result, error) {
	trials := p.Config.Trials
	if trials <= 0 {
		trials = 1
	}

	opts := []tiffbench.Option{
		tiffbench.WithTrials(trials),
		tiffbench.WithKeepScratch(p.Config.KeepScratch),
		tiffbench.WithStats(p.Collector),
		tiffbench.WithLogger(p.Logger.Named("tiffbench")),
	}
	if p.Config.CatalogPath != "" {
		variants, err := catalog.Load(p.Config.CatalogPath)
		if err != nil {
			return Result{}, err
		}
		opts = append(opts, tiffbench.WithCatalog(variants))
	}

	runner, err := tiffbench.New(opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Runner: runner}, nil
}
