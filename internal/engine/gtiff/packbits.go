package gtiff

import "fmt"

// packBits compresses src with the TIFF PackBits byte-run scheme: a control
// byte n in [0,127] is followed by n+1 literal bytes, and n in [129,255]
// repeats the following byte 257-n times. 128 is a no-op and never emitted.
func packBits(src []byte) []byte {
	dst := make([]byte, 0, len(src)+len(src)/128+1)

	i := 0
	for i < len(src) {
		// Measure the run starting at i.
		run := 1
		for i+run < len(src) && run < 128 && src[i+run] == src[i] {
			run++
		}
		if run >= 2 {
			dst = append(dst, byte(257-run), src[i])
			i += run
			continue
		}

		// Literal stretch: stop at 128 bytes or when a 2-byte run begins.
		start := i
		i++
		for i < len(src) && i-start < 128 {
			if i+1 < len(src) && src[i] == src[i+1] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}
	return dst
}

// unpackBits expands PackBits data to exactly n bytes.
func unpackBits(src []byte, n int) ([]byte, error) {
	dst := make([]byte, 0, n)
	for i := 0; i < len(src) && len(dst) < n; {
		h := src[i]
		i++
		switch {
		case h <= 127:
			cnt := int(h) + 1
			if i+cnt > len(src) {
				return nil, fmt.Errorf("packbits: truncated literal")
			}
			dst = append(dst, src[i:i+cnt]...)
			i += cnt
		case h >= 129:
			if i >= len(src) {
				return nil, fmt.Errorf("packbits: truncated run")
			}
			cnt := 257 - int(h)
			for j := 0; j < cnt; j++ {
				dst = append(dst, src[i])
			}
			i++
		}
	}
	if len(dst) < n {
		return nil, fmt.Errorf("packbits: short block: %d of %d bytes", len(dst), n)
	}
	return dst[:n], nil
}
