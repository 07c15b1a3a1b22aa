package gtiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sort"

	"github.com/klauspost/compress/zlib"

	"github.com/geobench/tiffbench/internal/engine"
	"github.com/geobench/tiffbench/internal/engine/gtiff/tifflzw"
)

// TIFF tag and constant values from the TIFF 6.0 specification.
const (
	tImageWidth      = 256
	tImageLength     = 257
	tBitsPerSample   = 258
	tCompression     = 259
	tPhotometric     = 262
	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279
	tPredictor       = 317
	tTileWidth       = 322
	tTileLength      = 323
	tTileOffsets     = 324
	tTileByteCounts  = 325
	tExtraSamples    = 338

	dtShort = 3
	dtLong  = 4

	cNone     = 1
	cLZW      = 5
	cDeflate  = 8
	cPackBits = 32773

	pBlackIsZero = 1
	pRGB         = 2

	// tileSize is the fixed tile edge for TILED layouts, matching GDAL's
	// default block size. TIFF requires a multiple of 16.
	tileSize = 256

	// stripTargetBytes sizes strips for untiled layouts.
	stripTargetBytes = 64 << 10
)

type ifdEntry struct {
	tag    uint16
	dtype  uint16
	values []uint32
}

func (e ifdEntry) byteSize() int {
	if e.dtype == dtShort {
		return 2 * len(e.values)
	}
	return 4 * len(e.values)
}

// rasterize converts img into tightly packed 8-bit samples. Grayscale images
// stay single-band; everything else becomes NRGBA.
func rasterize(img image.Image) (pix []byte, width, height, spp int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()

	if m, ok := img.(*image.Gray); ok {
		spp = 1
		pix = make([]byte, width*height)
		for y := 0; y < height; y++ {
			copy(pix[y*width:(y+1)*width], m.Pix[y*m.Stride:y*m.Stride+width])
		}
		return pix, width, height, spp
	}

	spp = 4
	n := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	return n.Pix, width, height, spp
}

func compressorFor(c engine.Compression) (func([]byte) ([]byte, error), uint32, error) {
	switch c {
	case engine.CompressionNone:
		return func(b []byte) ([]byte, error) { return b, nil }, cNone, nil
	case engine.CompressionPackBits:
		return func(b []byte) ([]byte, error) { return packBits(b), nil }, cPackBits, nil
	case engine.CompressionDeflate:
		return deflateBlock, cDeflate, nil
	case engine.CompressionLZW:
		return func(b []byte) ([]byte, error) { return tifflzw.Compress(b), nil }, cLZW, nil
	default:
		return nil, 0, fmt.Errorf("%w: compression %q", engine.ErrUnsupported, c)
	}
}

func deflateBlock(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockify splits the raster into strips or fixed-size tiles. Tile blocks are
// zero-padded to full tile dimensions; strip blocks hold exact rows. The
// returned rowBytes is the stored row length within each block.
func blockify(pix []byte, width, height, spp int, tiled bool) (blocks [][]byte, rowBytes int) {
	rowLen := width * spp

	if !tiled {
		rps := stripTargetBytes / rowLen
		if rps < 1 {
			rps = 1
		}
		if rps > height {
			rps = height
		}
		for y := 0; y < height; y += rps {
			rows := rps
			if y+rows > height {
				rows = height - y
			}
			blocks = append(blocks, pix[y*rowLen:(y+rows)*rowLen])
		}
		return blocks, rowLen
	}

	tileRow := tileSize * spp
	across := (width + tileSize - 1) / tileSize
	down := (height + tileSize - 1) / tileSize
	for ty := 0; ty < down; ty++ {
		for tx := 0; tx < across; tx++ {
			block := make([]byte, tileRow*tileSize)
			w := width - tx*tileSize
			if w > tileSize {
				w = tileSize
			}
			for r := 0; r < tileSize; r++ {
				y := ty*tileSize + r
				if y >= height {
					break
				}
				src := pix[y*rowLen+tx*tileRow:]
				copy(block[r*tileRow:r*tileRow+w*spp], src[:w*spp])
			}
			blocks = append(blocks, block)
		}
	}
	return blocks, tileRow
}

// applyPredictor rewrites block in place with horizontal differencing.
func applyPredictor(block []byte, rowBytes, spp int) {
	for row := 0; row+rowBytes <= len(block); row += rowBytes {
		for i := row + rowBytes - 1; i >= row+spp; i-- {
			block[i] -= block[i-spp]
		}
	}
}

// encode writes img to w as a little-endian classic TIFF under opts.
func encode(w *bytes.Buffer, img image.Image, opts engine.TranslateOptions) error {
	compress, compTag, err := compressorFor(opts.Compression)
	if err != nil {
		return err
	}
	if opts.Predictor != engine.PredictorNone && opts.Predictor != engine.PredictorHorizontal {
		return fmt.Errorf("%w: predictor %d", engine.ErrUnsupported, opts.Predictor)
	}

	pix, width, height, spp := rasterize(img)
	if width == 0 || height == 0 {
		return fmt.Errorf("gtiff: empty raster")
	}

	// IF_SAFE projection: the uncompressed payload bounds the classic
	// 32-bit offset space no matter which codec runs, so refuse before
	// doing any work.
	if int64(len(pix)) > math.MaxUint32-1<<20 {
		return fmt.Errorf("%w: raster payload is %d bytes", engine.ErrTooLarge, len(pix))
	}

	blocks, rowBytes := blockify(pix, width, height, spp, opts.Tiled)

	encoded := make([][]byte, len(blocks))
	for i, block := range blocks {
		if opts.Predictor == engine.PredictorHorizontal {
			applyPredictor(block, rowBytes, spp)
		}
		enc, err := compress(block)
		if err != nil {
			return fmt.Errorf("compressing block %d: %w", i, err)
		}
		encoded[i] = enc
	}

	// Lay out block data after the 8-byte header, each block padded to an
	// even offset.
	offsets := make([]uint32, len(encoded))
	counts := make([]uint32, len(encoded))
	off := int64(8)
	for i, enc := range encoded {
		offsets[i] = uint32(off)
		counts[i] = uint32(len(enc))
		off += int64(len(enc))
		off += off & 1
	}

	entries := []ifdEntry{
		{tImageWidth, dtLong, []uint32{uint32(width)}},
		{tImageLength, dtLong, []uint32{uint32(height)}},
		{tCompression, dtShort, []uint32{compTag}},
		{tSamplesPerPixel, dtShort, []uint32{uint32(spp)}},
	}
	bits := make([]uint32, spp)
	for i := range bits {
		bits[i] = 8
	}
	entries = append(entries, ifdEntry{tBitsPerSample, dtShort, bits})
	if spp == 1 {
		entries = append(entries, ifdEntry{tPhotometric, dtShort, []uint32{pBlackIsZero}})
	} else {
		entries = append(entries, ifdEntry{tPhotometric, dtShort, []uint32{pRGB}})
		entries = append(entries, ifdEntry{tExtraSamples, dtShort, []uint32{2}}) // unassociated alpha
	}
	if opts.Tiled {
		entries = append(entries,
			ifdEntry{tTileWidth, dtLong, []uint32{tileSize}},
			ifdEntry{tTileLength, dtLong, []uint32{tileSize}},
			ifdEntry{tTileOffsets, dtLong, offsets},
			ifdEntry{tTileByteCounts, dtLong, counts},
		)
	} else {
		rps := uint32(len(blocks[0]) / rowBytes)
		entries = append(entries,
			ifdEntry{tStripOffsets, dtLong, offsets},
			ifdEntry{tRowsPerStrip, dtLong, []uint32{rps}},
			ifdEntry{tStripByteCounts, dtLong, counts},
		)
	}
	if opts.Predictor == engine.PredictorHorizontal {
		entries = append(entries, ifdEntry{tPredictor, dtShort, []uint32{uint32(opts.Predictor)}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	// Out-of-line values land between block data and the IFD.
	var extra bytes.Buffer
	valueOffsets := make(map[uint16]uint32, len(entries))
	for _, e := range entries {
		if e.byteSize() <= 4 {
			continue
		}
		valueOffsets[e.tag] = uint32(off + int64(extra.Len()))
		for _, v := range e.values {
			if e.dtype == dtShort {
				putU16(&extra, uint16(v))
			} else {
				putU32(&extra, v)
			}
		}
		if extra.Len()&1 == 1 {
			extra.WriteByte(0)
		}
	}

	ifdOffset := off + int64(extra.Len())
	total := ifdOffset + int64(2+12*len(entries)+4)
	if total > math.MaxUint32 {
		// Classic TIFF offsets are 32-bit; nothing bigger can be
		// represented regardless of the BigTIFF mode requested.
		return fmt.Errorf("%w: %d bytes", engine.ErrTooLarge, total)
	}

	// Header.
	w.WriteString("II")
	putU16(w, 42)
	putU32(w, uint32(ifdOffset))

	// Block data.
	for _, enc := range encoded {
		w.Write(enc)
		if len(enc)&1 == 1 {
			w.WriteByte(0)
		}
	}

	w.Write(extra.Bytes())

	// IFD.
	putU16(w, uint16(len(entries)))
	for _, e := range entries {
		putU16(w, e.tag)
		putU16(w, e.dtype)
		putU32(w, uint32(len(e.values)))
		if e.byteSize() > 4 {
			putU32(w, valueOffsets[e.tag])
			continue
		}
		// Inline values, left-justified in the 4-byte field.
		var field [4]byte
		if e.dtype == dtShort {
			for i, v := range e.values {
				binary.LittleEndian.PutUint16(field[2*i:], uint16(v))
			}
		} else {
			binary.LittleEndian.PutUint32(field[:], e.values[0])
		}
		w.Write(field[:])
	}
	putU32(w, 0) // no next IFD

	return nil
}

func putU16(w *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func putU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}
