package gtiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/image/tiff/lzw"
)

const pWhiteIsZero = 0

// ifd holds the first image file directory of a classic TIFF, keyed by tag.
// Only SHORT and LONG entries are kept.
type ifd struct {
	tags map[uint16][]uint32
}

// parseIFD reads the header and first directory out of a whole-file buffer.
// Anything that is not a well-formed classic TIFF reports ok=false.
func parseIFD(data []byte) (*ifd, bool) {
	if len(data) < 8 {
		return nil, false
	}
	var order binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, false
	}
	if order.Uint16(data[2:4]) != 42 {
		return nil, false
	}

	off := int64(order.Uint32(data[4:8]))
	if off+2 > int64(len(data)) {
		return nil, false
	}
	n := int(order.Uint16(data[off : off+2]))
	base := off + 2
	if base+12*int64(n) > int64(len(data)) {
		return nil, false
	}

	tags := make(map[uint16][]uint32, n)
	for i := 0; i < n; i++ {
		e := data[base+12*int64(i):]
		tag := order.Uint16(e[0:2])
		dtype := order.Uint16(e[2:4])
		count := int64(order.Uint32(e[4:8]))

		var size int64
		switch dtype {
		case dtShort:
			size = 2
		case dtLong:
			size = 4
		default:
			continue
		}

		val := e[8:12]
		if size*count > 4 {
			voff := int64(order.Uint32(e[8:12]))
			if voff+size*count > int64(len(data)) {
				return nil, false
			}
			val = data[voff:]
		}

		vs := make([]uint32, count)
		for j := int64(0); j < count; j++ {
			if dtype == dtShort {
				vs[j] = uint32(order.Uint16(val[2*j:]))
			} else {
				vs[j] = order.Uint32(val[4*j:])
			}
		}
		tags[tag] = vs
	}
	return &ifd{tags: tags}, true
}

// first returns the first value of tag, or def when the tag is absent.
func (d *ifd) first(tag uint16, def uint32) uint32 {
	if vs := d.tags[tag]; len(vs) > 0 {
		return vs[0]
	}
	return def
}

// decodeGrayTiles decodes an 8-bit single-band tiled classic TIFF. The
// x/image/tiff grayscale path reads tile rows without skipping the horizontal
// padding TIFF requires on right-edge tiles, so any width that is not a tile
// multiple comes back corrupted; this path owns that layout instead. ok=false
// means the raster is some other shape and the caller should fall back to
// tiff.Decode.
func decodeGrayTiles(data []byte) (img *image.Gray, ok bool, err error) {
	d, ok := parseIFD(data)
	if !ok {
		return nil, false, nil
	}

	tileW := int(d.first(tTileWidth, 0))
	tileH := int(d.first(tTileLength, 0))
	if tileW <= 0 || tileH <= 0 || tileW > 1<<15 || tileH > 1<<15 {
		return nil, false, nil
	}
	if bits := d.tags[tBitsPerSample]; len(bits) != 1 || bits[0] != 8 {
		return nil, false, nil
	}
	if d.first(tSamplesPerPixel, 1) != 1 {
		return nil, false, nil
	}
	photometric := d.first(tPhotometric, pBlackIsZero)
	if photometric != pBlackIsZero && photometric != pWhiteIsZero {
		return nil, false, nil
	}
	compression := d.first(tCompression, cNone)
	switch compression {
	case cNone, cLZW, cDeflate, cPackBits:
	default:
		return nil, false, nil
	}
	predictor := d.first(tPredictor, 1)
	if predictor != 1 && predictor != 2 {
		return nil, false, nil
	}

	width := int(d.first(tImageWidth, 0))
	height := int(d.first(tImageLength, 0))
	if width <= 0 || height <= 0 {
		return nil, false, nil
	}

	across := (width + tileW - 1) / tileW
	down := (height + tileH - 1) / tileH
	offsets := d.tags[tTileOffsets]
	counts := d.tags[tTileByteCounts]
	if len(offsets) != across*down || len(counts) != across*down {
		return nil, false, nil
	}

	img = image.NewGray(image.Rect(0, 0, width, height))
	tileBytes := tileW * tileH
	for ty := 0; ty < down; ty++ {
		for tx := 0; tx < across; tx++ {
			i := ty*across + tx
			off, cnt := int64(offsets[i]), int64(counts[i])
			if off+cnt > int64(len(data)) {
				return nil, true, fmt.Errorf("gtiff: tile %d outside file bounds", i)
			}

			raw, err := expandBlock(data[off:off+cnt], compression, tileBytes)
			if err != nil {
				return nil, true, fmt.Errorf("gtiff: tile %d: %w", i, err)
			}
			if predictor == 2 {
				undoPredictor(raw, tileW, 1)
			}

			w := width - tx*tileW
			if w > tileW {
				w = tileW
			}
			for r := 0; r < tileH; r++ {
				y := ty*tileH + r
				if y >= height {
					break
				}
				dst := y*img.Stride + tx*tileW
				copy(img.Pix[dst:dst+w], raw[r*tileW:r*tileW+w])
			}
		}
	}

	if photometric == pWhiteIsZero {
		for i, v := range img.Pix {
			img.Pix[i] = 255 - v
		}
	}
	return img, true, nil
}

// expandBlock decompresses one tile or strip to exactly n bytes.
func expandBlock(b []byte, compression uint32, n int) ([]byte, error) {
	switch compression {
	case cNone:
		if len(b) < n {
			return nil, fmt.Errorf("short block: %d of %d bytes", len(b), n)
		}
		return b[:n], nil
	case cPackBits:
		return unpackBits(b, n)
	case cDeflate:
		zr, err := zlib.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		out := make([]byte, n)
		if _, err := io.ReadFull(zr, out); err != nil {
			return nil, err
		}
		return out, nil
	case cLZW:
		r := lzw.NewReader(bytes.NewReader(b), lzw.MSB, 8)
		defer r.Close()
		out := make([]byte, n)
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected compression %d", compression)
	}
}

// undoPredictor inverts horizontal differencing in place.
func undoPredictor(block []byte, rowBytes, spp int) {
	for row := 0; row+rowBytes <= len(block); row += rowBytes {
		for i := row + spp; i < row+rowBytes; i++ {
			block[i] += block[i-spp]
		}
	}
}
