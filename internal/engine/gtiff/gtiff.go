// Package gtiff is a pure-Go TIFF engine for the benchmark harness. It
// encodes with its own baseline writer and decodes through
// golang.org/x/image/tiff, except for 8-bit single-band tiled rasters, which
// get a package-local reader (reader.go) because the x/image grayscale path
// mishandles tile padding. The harness runs without cgo or an external GDAL
// install.
//
// Supported codec parameters: none/PackBits/Deflate/LZW compression,
// horizontal-differencing predictor, strip or 256x256 tile layout, 8-bit
// grayscale or NRGBA samples. Output is always classic little-endian TIFF;
// the BigTIFF IF_SAFE mode is honored as a size guard.
package gtiff

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"

	"github.com/geobench/tiffbench/internal/engine"
)

// Compile-time check that Engine implements engine.Engine.
var _ engine.Engine = (*Engine)(nil)

// Engine encodes and decodes baseline TIFF rasters in pure Go.
type Engine struct{}

// New returns a new TIFF engine.
func New() *Engine {
	return &Engine{}
}

// Translate re-encodes the raster at srcPath into dstPath under opts. The
// source is re-opened and fully decoded on every call, so the measured write
// cost includes the same read overhead for every variant.
func (e *Engine) Translate(ctx context.Context, srcPath, dstPath string, opts engine.TranslateOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}

	img, err := decodeImage(data)
	if err != nil {
		return fmt.Errorf("decoding source: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, opts); err != nil {
		return err
	}

	if err := os.WriteFile(dstPath, buf.Bytes(), 0o644); err != nil {
		// A partial artifact must not survive a failed encode.
		os.Remove(dstPath)
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// DecodeFull decodes every pixel of the raster at path into memory. Both
// decode paths materialize the whole image, so the elapsed time a caller
// measures around this covers real decompression work, not header parsing.
func (e *Engine) DecodeFull(ctx context.Context, path string) (*engine.Raster, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}

	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}

	b := img.Bounds()
	return &engine.Raster{
		Width:      b.Dx(),
		Height:     b.Dy(),
		PixelBytes: pixelBytes(img),
	}, nil
}

// decodeImage routes 8-bit single-band tiled rasters through the
// package-local reader and everything else through tiff.Decode.
func decodeImage(data []byte) (image.Image, error) {
	if img, ok, err := decodeGrayTiles(data); ok {
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	return tiff.Decode(bytes.NewReader(data))
}

// pixelBytes reports the sample bytes held in memory for img, touching every
// pixel for image types without an exposed buffer.
func pixelBytes(img image.Image) int64 {
	switch m := img.(type) {
	case *image.Gray:
		return int64(len(m.Pix))
	case *image.Gray16:
		return int64(len(m.Pix))
	case *image.NRGBA:
		return int64(len(m.Pix))
	case *image.RGBA:
		return int64(len(m.Pix))
	case *image.Paletted:
		return int64(len(m.Pix))
	case *image.NRGBA64:
		return int64(len(m.Pix))
	case *image.RGBA64:
		return int64(len(m.Pix))
	default:
		b := img.Bounds()
		var n int64
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, a := img.At(x, y).RGBA()
				_ = r + g + bl + a
				n += 8
			}
		}
		return n
	}
}
