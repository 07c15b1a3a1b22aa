package tiffbench

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/geobench/tiffbench/internal/catalog"
	"github.com/geobench/tiffbench/internal/stats"
)

// encodeAll runs the encode phase for every variant, in catalog order. Each
// variant's failure is isolated to its own cell; the loop always completes.
func (r *Runner) encodeAll(ctx context.Context, srcPath string, paths []string) []Timing {
	writes := make([]Timing, len(r.catalog))
	for i, v := range r.catalog {
		writes[i] = r.encodeVariant(ctx, srcPath, paths[i], v)
		if writes[i].OK() {
			r.logger.Debug("encoded variant",
				zap.String("variant", v.Name),
				zap.Duration("elapsed", writes[i].Samples[0]),
			)
		}
	}
	return writes
}

// encodeVariant times r.trials encodes of one variant. Later trials
// overwrite the same artifact path, so exactly one artifact per variant
// remains for the downstream stages.
func (r *Runner) encodeVariant(ctx context.Context, srcPath, dstPath string, v catalog.Variant) Timing {
	var cell Timing
	for trial := 0; trial < r.trials; trial++ {
		start := time.Now()
		err := r.engine.Translate(ctx, srcPath, dstPath, v.TranslateOptions())
		elapsed := time.Since(start)

		if err != nil {
			r.stats.IncCounter(stats.MetricEncodeFailures, 1)
			r.logger.Warn("encode failed",
				zap.String("variant", v.Name),
				zap.Int("trial", trial+1),
				zap.Error(err),
			)
			return Timing{Err: fmt.Errorf("encoding %s: %w", v.Name, err)}
		}

		cell.Samples = append(cell.Samples, elapsed)
		r.stats.IncCounter(stats.MetricEncodes, 1)
		r.stats.ObserveHistogram(stats.MetricEncodeSeconds, elapsed.Seconds())
	}
	return cell
}

// inspectSizes stats every artifact path. A missing artifact (failed encode)
// or stat error degrades to a failed cell for that position only.
func (r *Runner) inspectSizes(paths []string) []Size {
	sizes := make([]Size, len(paths))
	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			r.logger.Warn("size inspection failed",
				zap.String("variant", r.catalog[i].Name),
				zap.Error(err),
			)
			sizes[i] = Size{Err: fmt.Errorf("inspecting %s: %w", r.catalog[i].Name, err)}
			continue
		}
		sizes[i] = Size{Bytes: info.Size()}
		r.stats.ObserveHistogram(stats.MetricArtifactBytes, float64(info.Size()))
	}
	return sizes
}

// decodeAll times a full decode of every artifact, in catalog order.
func (r *Runner) decodeAll(ctx context.Context, paths []string) []Timing {
	reads := make([]Timing, len(paths))
	for i := range paths {
		reads[i] = r.decodeVariant(ctx, paths[i], r.catalog[i])
		if reads[i].OK() {
			r.logger.Debug("decoded variant",
				zap.String("variant", r.catalog[i].Name),
				zap.Duration("elapsed", reads[i].Samples[0]),
			)
		}
	}
	return reads
}

func (r *Runner) decodeVariant(ctx context.Context, path string, v catalog.Variant) Timing {
	var cell Timing
	for trial := 0; trial < r.trials; trial++ {
		start := time.Now()
		raster, err := r.engine.DecodeFull(ctx, path)
		elapsed := time.Since(start)

		if err != nil {
			r.stats.IncCounter(stats.MetricDecodeFailures, 1)
			r.logger.Warn("decode failed",
				zap.String("variant", v.Name),
				zap.Int("trial", trial+1),
				zap.Error(err),
			)
			return Timing{Err: fmt.Errorf("decoding %s: %w", v.Name, err)}
		}

		cell.Samples = append(cell.Samples, elapsed)
		r.stats.IncCounter(stats.MetricDecodes, 1)
		r.stats.ObserveHistogram(stats.MetricDecodeSeconds, elapsed.Seconds())
		r.logger.Debug("materialized raster",
			zap.String("variant", v.Name),
			zap.Int("width", raster.Width),
			zap.Int("height", raster.Height),
			zap.Int64("pixelBytes", raster.PixelBytes),
		)
	}
	return cell
}
