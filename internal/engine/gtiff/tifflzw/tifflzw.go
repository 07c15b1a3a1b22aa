// Package tifflzw implements the compress side of TIFF-variant LZW.
//
// TIFF LZW differs from the GIF-style compress/lzw stream in two ways: codes
// are packed most-significant-bit first, and the code width grows one code
// earlier than late-change coders (the "early change" that libtiff
// standardized). The decode side lives in golang.org/x/image/tiff/lzw; this
// package is its missing write half.
package tifflzw

const (
	clearCode = 256
	eofCode   = 257
	firstCode = 258

	maxWidth = 12

	// resetAt is the next-free code value at which the table is flushed
	// with a Clear, per libtiff (CODE_MAX-1). The decoder's lagging table
	// never reaches the 12-bit ceiling this way.
	resetAt = 1<<maxWidth - 2
)

type bitWriter struct {
	out   []byte
	acc   uint32
	nbits uint
}

func (b *bitWriter) write(code uint32, width uint) {
	b.acc = b.acc<<width | code
	b.nbits += width
	for b.nbits >= 8 {
		b.nbits -= 8
		b.out = append(b.out, byte(b.acc>>b.nbits))
	}
}

func (b *bitWriter) flush() {
	if b.nbits > 0 {
		b.out = append(b.out, byte(b.acc<<(8-b.nbits)))
		b.nbits = 0
	}
}

// Compress encodes src as a TIFF LZW stream.
func Compress(src []byte) []byte {
	w := &bitWriter{out: make([]byte, 0, len(src)/2+16)}

	// Prefix-plus-byte string table. Keys pack the prefix code with the
	// extension byte; values are assigned codes.
	table := make(map[uint32]uint32, 1<<maxWidth)
	next := uint32(firstCode) // next free code
	width := uint(9)

	w.write(clearCode, width)

	if len(src) == 0 {
		w.write(eofCode, width)
		w.flush()
		return w.out
	}

	omega := uint32(src[0])
	for _, c := range src[1:] {
		key := omega<<8 | uint32(c)
		if code, ok := table[key]; ok {
			omega = code
			continue
		}

		w.write(omega, width)
		table[key] = next
		next++
		omega = uint32(c)

		if next == resetAt {
			w.write(clearCode, width)
			table = make(map[uint32]uint32, 1<<maxWidth)
			next = firstCode
			width = 9
		} else if next >= 1<<width {
			// Early change relative to the emitted code stream: the
			// encoder's table leads the decoder's by one entry, so
			// bumping at next-free == 1<<width lands on the same code
			// index where the decoder bumps.
			width++
		}
	}

	w.write(omega, width)
	// The decoder advances its table position for the final code before it
	// reads EOI, so mirror the width bump here.
	next++
	if next >= 1<<width && width < maxWidth {
		width++
	}
	w.write(eofCode, width)
	w.flush()
	return w.out
}
