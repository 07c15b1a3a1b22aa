// Package tiffbench benchmarks raster-compression variants for a single
// GeoTIFF. Each variant in a fixed catalog is re-encoded through a raster
// codec engine; the harness measures encoded size, write duration and read
// duration, and removes every generated artifact when the run ends.
//
// Example usage:
//
//	runner, err := tiffbench.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := runner.Run(ctx, "ortho.tif")
//	if err != nil && !errors.Is(err, tiffbench.ErrPartial) {
//	    log.Fatal(err)
//	}
//	report.WriteText(os.Stdout) // via the report package
package tiffbench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/geobench/tiffbench/internal/catalog"
	"github.com/geobench/tiffbench/internal/engine"
	"github.com/geobench/tiffbench/internal/scratch"
	"github.com/geobench/tiffbench/internal/source"
	"github.com/geobench/tiffbench/internal/stats"
)

// Sentinel errors for well-defined run outcomes.
var (
	// ErrPartial indicates the run completed and produced a full report,
	// but at least one variant could not be measured.
	ErrPartial = errors.New("tiffbench: one or more variants failed")
)

// Runner executes benchmark runs. A Runner is immutable after New and may be
// reused for multiple runs, one at a time.
type Runner struct {
	engine     engine.Engine
	catalog    []catalog.Variant
	trials     int
	keep       bool
	scratchDir string
	stats      stats.Collector
	logger     *zap.Logger
}

// New creates a new Runner with the given options.
// If no options are provided, sensible defaults are used.
func New(opts ...Option) (*Runner, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if err := catalog.Validate(cfg.catalog); err != nil {
		return nil, err
	}
	if cfg.trials < 1 {
		return nil, fmt.Errorf("tiffbench: trials must be at least 1, got %d", cfg.trials)
	}

	r := &Runner{
		engine:     cfg.engine,
		catalog:    cfg.catalog,
		trials:     cfg.trials,
		keep:       cfg.keep,
		scratchDir: cfg.scratchDir,
		stats:      cfg.stats,
		logger:     cfg.logger,
	}

	r.logger.Debug("runner initialized",
		zap.Int("variants", len(r.catalog)),
		zap.Int("trials", r.trials),
	)
	return r, nil
}

// Run executes the full benchmark pipeline for rawSource, which may be a
// local path or an http(s)/gs/s3 URL. Stages run strictly in order: all
// encodes, then all size inspections, then all decodes, then teardown.
//
// The returned report always covers every catalog position. When at least
// one variant failed, the report is returned together with ErrPartial. A nil
// report means a fatal error: the source was unusable or the scratch
// directory could not be prepared.
func (r *Runner) Run(ctx context.Context, rawSource string) (*RunReport, error) {
	start := time.Now()

	fetcher, err := source.Resolve(rawSource)
	if err != nil {
		return nil, fmt.Errorf("resolving source: %w", err)
	}

	// Input errors are fatal and must surface before any scratch state is
	// created.
	if !source.IsRemote(rawSource) {
		info, err := os.Stat(rawSource)
		if err != nil {
			return nil, fmt.Errorf("opening source image: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("opening source image: %s is a directory", rawSource)
		}
	}

	sm := scratch.New(r.scratchPath(rawSource), r.logger)
	if err := sm.Prepare(); err != nil {
		return nil, err
	}

	// Everything the run puts inside the scratch directory, for teardown.
	cleanup := make([]string, 0, len(r.catalog)+1)
	for _, v := range r.catalog {
		cleanup = append(cleanup, v.Filename())
	}

	if !r.keep {
		defer func() {
			r.stats.SetGauge(stats.MetricScratchFiles, 0)
			if err := sm.Teardown(cleanup); err != nil {
				r.logger.Warn("scratch teardown incomplete", zap.Error(err))
			}
		}()
	} else {
		r.logger.Info("keeping scratch directory", zap.String("dir", sm.Dir()))
	}

	srcPath, err := fetcher.Fetch(ctx, sm.Dir())
	if err != nil {
		return nil, fmt.Errorf("fetching source: %w", err)
	}
	if filepath.Dir(srcPath) == sm.Dir() {
		cleanup = append(cleanup, filepath.Base(srcPath))
	}
	r.stats.SetGauge(stats.MetricScratchFiles, int64(len(cleanup)))

	paths := make([]string, len(r.catalog))
	for i, v := range r.catalog {
		paths[i] = sm.Path(v.Filename())
	}

	r.logger.Info("benchmark starting",
		zap.String("source", srcPath),
		zap.Int("variants", len(r.catalog)),
		zap.Int("trials", r.trials),
	)

	writes := r.encodeAll(ctx, srcPath, paths)
	sizes := r.inspectSizes(paths)
	reads := r.decodeAll(ctx, paths)

	report := &RunReport{
		Source:   rawSource,
		Variants: r.catalog,
		Sizes:    sizes,
		Writes:   writes,
		Reads:    reads,
		Trials:   r.trials,
		Elapsed:  time.Since(start),
	}

	r.logger.Info("benchmark finished",
		zap.Duration("elapsed", report.Elapsed),
		zap.Int("failures", report.FailureCount()),
	)

	if report.Failed() {
		return report, ErrPartial
	}
	return report, nil
}

// scratchPath returns the scratch directory for a run: the configured
// override, or "tmp" alongside the source image. Remote sources have no local
// parent directory to anchor to, so they scratch under the system temp
// directory instead of wherever the process happens to run.
func (r *Runner) scratchPath(rawSource string) string {
	if r.scratchDir != "" {
		return r.scratchDir
	}
	if source.IsRemote(rawSource) {
		return filepath.Join(os.TempDir(), "tiffbench-tmp")
	}
	return filepath.Join(filepath.Dir(rawSource), "tmp")
}
