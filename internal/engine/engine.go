// Package engine defines the boundary to the raster codec engine that the
// benchmark harness drives. The harness never touches pixel data or file
// formats itself; it hands an Engine a source path, a destination path and a
// set of codec parameters, and times the calls.
package engine

import (
	"context"
	"errors"
)

// Compression identifies a TIFF compression scheme by name.
type Compression string

// Compression schemes a conforming engine may support.
const (
	CompressionNone     Compression = "none"
	CompressionPackBits Compression = "packbits"
	CompressionDeflate  Compression = "deflate"
	CompressionLZW      Compression = "lzw"
)

// Predictor modes. Values follow the TIFF Predictor tag.
const (
	PredictorNone       = 1
	PredictorHorizontal = 2
)

// BigTIFFMode controls how an engine treats outputs that may exceed the
// classic TIFF 4 GiB offset limit.
type BigTIFFMode int

const (
	// BigTIFFNever always writes classic TIFF; oversized outputs fail.
	BigTIFFNever BigTIFFMode = iota

	// BigTIFFIfSafe follows GDAL's BIGTIFF=IF_SAFE: an engine that cannot
	// produce BigTIFF must refuse an encode whose projected size does not
	// fit classic 32-bit offsets, rather than write a corrupt file.
	BigTIFFIfSafe
)

// Sentinel errors for well-defined engine failure conditions.
var (
	// ErrUnsupported indicates the engine does not support a requested
	// codec parameter combination.
	ErrUnsupported = errors.New("engine: unsupported codec option")

	// ErrTooLarge indicates the output cannot be represented as a classic
	// TIFF and BigTIFF is unavailable.
	ErrTooLarge = errors.New("engine: output too large for classic TIFF")
)

// TranslateOptions carries the codec parameters for one Translate call.
// The zero value means uncompressed, no predictor, strip layout.
type TranslateOptions struct {
	Compression Compression
	Predictor   int // PredictorNone or PredictorHorizontal
	Tiled       bool
	BigTIFF     BigTIFFMode
}

// Raster describes a fully materialized decode.
type Raster struct {
	Width  int
	Height int

	// PixelBytes is the number of sample bytes held in memory after the
	// decode. Harness timing relies on this being fully materialized, not
	// lazily mapped.
	PixelBytes int64
}

// Engine is the raster codec boundary.
type Engine interface {
	// Translate re-encodes the raster at srcPath into dstPath under opts.
	// On failure no artifact may be left at dstPath.
	Translate(ctx context.Context, srcPath, dstPath string, opts TranslateOptions) error

	// DecodeFull decodes every pixel of the raster at path into memory and
	// reports its dimensions. Header-only parsing is not a valid
	// implementation.
	DecodeFull(ctx context.Context, path string) (*Raster, error)
}
