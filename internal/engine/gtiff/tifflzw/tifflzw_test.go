package tifflzw

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/image/tiff/lzw"
)

// decompress runs a stream back through the decoder this encoder targets.
func decompress(t *testing.T, data []byte) []byte {
	t.Helper()
	r := lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decoding stream: %v", err)
	}
	return out
}

func TestCompressEmpty(t *testing.T) {
	data := Compress(nil)
	if len(data) == 0 {
		t.Fatal("empty input produced empty stream, want Clear+EOI")
	}
	if got := decompress(t, data); len(got) != 0 {
		t.Errorf("decoded %d bytes, want 0", len(got))
	}
}

func TestCompressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{"single byte", []byte{42}},
		{"short text", []byte("TOBEORNOTTOBEORTOBEORNOT")},
		{"all zeros", bytes.Repeat([]byte{0}, 8192)},
		{"two-byte alternation", bytes.Repeat([]byte{0xAA, 0x55}, 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decompress(t, Compress(tt.src))
			if !bytes.Equal(got, tt.src) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(tt.src))
			}
		})
	}
}

// TestCompressWidthGrowth drives the code width through every size up to 12
// bits and across a table reset, where an off-by-one against the decoder's
// early-change schedule would corrupt the stream.
func TestCompressWidthGrowth(t *testing.T) {
	src := make([]byte, 1<<16)
	for i := range src {
		src[i] = byte(i>>8) ^ byte(i*131)
	}

	got := decompress(t, Compress(src))
	if !bytes.Equal(got, src) {
		t.Fatal("round trip mismatch across width growth")
	}
}

func TestCompressTableReset(t *testing.T) {
	// Low-entropy data long enough that the string table fills several
	// times over.
	src := make([]byte, 1<<20)
	for i := range src {
		src[i] = byte(i / 1024)
	}

	got := decompress(t, Compress(src))
	if !bytes.Equal(got, src) {
		t.Fatal("round trip mismatch across table reset")
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	src := bytes.Repeat([]byte("tile row "), 1000)
	data := Compress(src)
	if len(data) >= len(src) {
		t.Errorf("compressed %d bytes to %d, want smaller", len(src), len(data))
	}
}
