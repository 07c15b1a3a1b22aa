package gtiff

import (
	"bytes"
	"testing"
)

func TestPackBitsVectors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want []byte
	}{
		{
			name: "empty",
			src:  nil,
			want: []byte{},
		},
		{
			name: "single byte",
			src:  []byte{'a'},
			want: []byte{0x00, 'a'},
		},
		{
			name: "short run",
			src:  []byte("aaa"),
			want: []byte{0xFE, 'a'},
		},
		{
			name: "all literals",
			src:  []byte("abc"),
			want: []byte{0x02, 'a', 'b', 'c'},
		},
		{
			name: "literal then run",
			src:  []byte("abcccc"),
			want: []byte{0x01, 'a', 'b', 0xFD, 'c'},
		},
		{
			name: "max run",
			src:  bytes.Repeat([]byte{'x'}, 128),
			want: []byte{0x81, 'x'},
		},
		{
			name: "run past max",
			src:  bytes.Repeat([]byte{'x'}, 130),
			want: []byte{0x81, 'x', 0xFF, 'x'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := packBits(tt.src)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("packBits(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestPackBitsRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("hello world"),
		bytes.Repeat([]byte{0}, 1000),
		[]byte("ababababab"),
		append(bytes.Repeat([]byte{'q'}, 300), []byte("tail")...),
	}

	// A pseudorandom-ish mixed buffer.
	mixed := make([]byte, 4096)
	for i := range mixed {
		mixed[i] = byte(i * i / 7)
	}
	inputs = append(inputs, mixed)

	for _, src := range inputs {
		got, err := unpackBits(packBits(src), len(src))
		if err != nil {
			t.Errorf("unpackBits failed for %d-byte input: %v", len(src), err)
			continue
		}
		if !bytes.Equal(got, src) {
			t.Errorf("round trip failed for %d-byte input", len(src))
		}
	}
}

func TestUnpackBitsBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		n    int
	}{
		{"truncated literal", []byte{0x05, 'a'}, 6},
		{"truncated run", []byte{0xFE}, 3},
		{"short block", []byte{0xFE, 'a'}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := unpackBits(tt.src, tt.n); err == nil {
				t.Errorf("unpackBits(%v, %d) succeeded", tt.src, tt.n)
			}
		})
	}
}

func TestUnpackBitsSkipsNoop(t *testing.T) {
	// 0x80 is a no-op control byte some writers emit as padding.
	got, err := unpackBits([]byte{0x80, 0x01, 'a', 'b'}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("ab")) {
		t.Errorf("got %q, want %q", got, "ab")
	}
}
