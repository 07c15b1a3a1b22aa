package gtiff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/geobench/tiffbench/internal/engine"
)

// testGray builds a banded grayscale raster: long horizontal runs so every
// codec under test actually compresses something.
func testGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := byte(y * 7)
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = v + byte(x/32)
		}
	}
	return img
}

func testNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*img.Stride + x*4
			img.Pix[i] = byte(y)
			img.Pix[i+1] = byte(x / 16)
			img.Pix[i+2] = byte((x + y) / 8)
			img.Pix[i+3] = 255
		}
	}
	return img
}

func optsGrid() []engine.TranslateOptions {
	var grid []engine.TranslateOptions
	for _, c := range []engine.Compression{
		engine.CompressionNone,
		engine.CompressionPackBits,
		engine.CompressionDeflate,
		engine.CompressionLZW,
	} {
		for _, p := range []int{engine.PredictorNone, engine.PredictorHorizontal} {
			for _, tiled := range []bool{false, true} {
				grid = append(grid, engine.TranslateOptions{
					Compression: c,
					Predictor:   p,
					Tiled:       tiled,
					BigTIFF:     engine.BigTIFFIfSafe,
				})
			}
		}
	}
	return grid
}

func optsName(o engine.TranslateOptions) string {
	layout := "strips"
	if o.Tiled {
		layout = "tiles"
	}
	return fmt.Sprintf("%s_p%d_%s", o.Compression, o.Predictor, layout)
}

func TestEncodeRoundTripGray(t *testing.T) {
	// Widths and heights off the tile grid matter most: padded edge tiles
	// corrupt rows when the decoder mishandles the stored tile stride.
	sizes := []struct{ w, h int }{
		{1, 1},
		{100, 100},
		{300, 260},
		{257, 300},
		{513, 17},
	}

	for _, size := range sizes {
		src := testGray(size.w, size.h)
		for _, opts := range optsGrid() {
			t.Run(fmt.Sprintf("%dx%d_%s", size.w, size.h, optsName(opts)), func(t *testing.T) {
				var buf bytes.Buffer
				if err := encode(&buf, src, opts); err != nil {
					t.Fatalf("encode: %v", err)
				}

				got, err := decodeImage(buf.Bytes())
				if err != nil {
					t.Fatalf("decode: %v", err)
				}

				gray, ok := got.(*image.Gray)
				if !ok {
					t.Fatalf("decoded %T, want *image.Gray", got)
				}
				if gray.Bounds() != src.Bounds() {
					t.Fatalf("bounds = %v, want %v", gray.Bounds(), src.Bounds())
				}
				for y := 0; y < size.h; y++ {
					if !bytes.Equal(
						gray.Pix[y*gray.Stride:y*gray.Stride+size.w],
						src.Pix[y*src.Stride:y*src.Stride+size.w],
					) {
						t.Fatalf("row %d mismatch after round trip", y)
					}
				}
			})
		}
	}
}

func TestDecodeGrayTilesSelection(t *testing.T) {
	// The package reader owns exactly the 8-bit single-band tiled layout;
	// everything else defers to tiff.Decode.
	var tiled bytes.Buffer
	if err := encode(&tiled, testGray(100, 100), engine.TranslateOptions{
		Compression: engine.CompressionDeflate,
		Predictor:   engine.PredictorHorizontal,
		Tiled:       true,
	}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := decodeGrayTiles(tiled.Bytes()); !ok || err != nil {
		t.Errorf("tiled gray: ok = %v, err = %v, want claimed without error", ok, err)
	}

	var strips bytes.Buffer
	if err := encode(&strips, testGray(100, 100), engine.TranslateOptions{
		Compression: engine.CompressionNone,
		Predictor:   engine.PredictorNone,
	}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := decodeGrayTiles(strips.Bytes()); ok {
		t.Error("strip layout claimed by the tile reader")
	}

	var nrgba bytes.Buffer
	if err := encode(&nrgba, testNRGBA(100, 100), engine.TranslateOptions{
		Compression: engine.CompressionLZW,
		Predictor:   engine.PredictorNone,
		Tiled:       true,
	}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := decodeGrayTiles(nrgba.Bytes()); ok {
		t.Error("four-band raster claimed by the tile reader")
	}

	if _, ok, _ := decodeGrayTiles([]byte("not a tiff")); ok {
		t.Error("garbage claimed by the tile reader")
	}
}

func TestEncodeRoundTripNRGBA(t *testing.T) {
	src := testNRGBA(90, 70)

	for _, opts := range optsGrid() {
		t.Run(optsName(opts), func(t *testing.T) {
			var buf bytes.Buffer
			if err := encode(&buf, src, opts); err != nil {
				t.Fatalf("encode: %v", err)
			}

			got, err := tiff.Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			nrgba, ok := got.(*image.NRGBA)
			if !ok {
				t.Fatalf("decoded %T, want *image.NRGBA", got)
			}
			if nrgba.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", nrgba.Bounds(), src.Bounds())
			}
			if !bytes.Equal(nrgba.Pix, src.Pix) {
				t.Error("pixel data mismatch after round trip")
			}
		})
	}
}

func TestEncodeCompressesBandedData(t *testing.T) {
	src := testGray(300, 260)

	var raw bytes.Buffer
	if err := encode(&raw, src, engine.TranslateOptions{
		Compression: engine.CompressionNone,
		Predictor:   engine.PredictorNone,
	}); err != nil {
		t.Fatal(err)
	}

	for _, c := range []engine.Compression{
		engine.CompressionPackBits,
		engine.CompressionDeflate,
		engine.CompressionLZW,
	} {
		var buf bytes.Buffer
		err := encode(&buf, src, engine.TranslateOptions{
			Compression: c,
			Predictor:   engine.PredictorNone,
		})
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if buf.Len() >= raw.Len() {
			t.Errorf("%s output %d bytes, not smaller than uncompressed %d", c, buf.Len(), raw.Len())
		}
	}
}

func TestEncodeUnsupportedCompression(t *testing.T) {
	var buf bytes.Buffer
	err := encode(&buf, testGray(8, 8), engine.TranslateOptions{Compression: "jpeg"})
	if err == nil {
		t.Fatal("encode with unknown compression succeeded")
	}
	if !errors.Is(err, engine.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestEncodeBadPredictor(t *testing.T) {
	var buf bytes.Buffer
	err := encode(&buf, testGray(8, 8), engine.TranslateOptions{
		Compression: engine.CompressionLZW,
		Predictor:   3,
	})
	if err == nil {
		t.Fatal("encode with invalid predictor succeeded")
	}
	if !errors.Is(err, engine.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestTranslateAndDecodeFull(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.tif")
	dstPath := filepath.Join(dir, "lzw_2.tif")

	f, err := os.Create(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(f, testGray(120, 80), nil); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	e := New()
	ctx := context.Background()

	err = e.Translate(ctx, srcPath, dstPath, engine.TranslateOptions{
		Compression: engine.CompressionLZW,
		Predictor:   engine.PredictorHorizontal,
		Tiled:       true,
		BigTIFF:     engine.BigTIFFIfSafe,
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	raster, err := e.DecodeFull(ctx, dstPath)
	if err != nil {
		t.Fatalf("DecodeFull: %v", err)
	}
	if raster.Width != 120 || raster.Height != 80 {
		t.Errorf("raster = %dx%d, want 120x80", raster.Width, raster.Height)
	}
	if raster.PixelBytes != 120*80 {
		t.Errorf("PixelBytes = %d, want %d", raster.PixelBytes, 120*80)
	}
}

func TestTranslateMissingSource(t *testing.T) {
	dir := t.TempDir()
	e := New()
	err := e.Translate(context.Background(),
		filepath.Join(dir, "absent.tif"),
		filepath.Join(dir, "out.tif"),
		engine.TranslateOptions{Compression: engine.CompressionNone, Predictor: engine.PredictorNone})
	if err == nil {
		t.Fatal("Translate with missing source succeeded")
	}
}

func TestTranslateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New()
	err := e.Translate(ctx, "src.tif", "dst.tif", engine.TranslateOptions{
		Compression: engine.CompressionNone,
		Predictor:   engine.PredictorNone,
	})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestApplyPredictorRoundTrip(t *testing.T) {
	block := []byte{10, 20, 30, 40, 5, 5, 5, 5}
	want := append([]byte(nil), block...)

	applyPredictor(block, 4, 1)
	if bytes.Equal(block, want) {
		t.Fatal("predictor left block unchanged")
	}

	// Invert: cumulative sum per row.
	for row := 0; row+4 <= len(block); row += 4 {
		for i := row + 1; i < row+4; i++ {
			block[i] += block[i-1]
		}
	}
	if !bytes.Equal(block, want) {
		t.Errorf("inverse predictor = %v, want %v", block, want)
	}
}
