// Code generated to mirror the vectorized Avg5 kernel described in
// avg5.go — re-expressed as target-independent chunked-lane Go rather
// than hand-written Plan9 assembly, with per-architecture backends
// gated by CPU feature detection (see optlevel.go).

//go:build amd64

package diffuse

// div5Mul is the fixed-point reciprocal of 5 used by both lane
// backends: for any sum in [0, 1275] (five pixels, each at most 255),
// (sum * div5Mul) >> 16 equals sum/5 computed with exact integer
// division. This lets the SIMD backends replace a per-lane divide,
// which has no 8/16-bit SIMD instruction, with a multiply-high and a
// shift, exactly as vpmulhuw does on real hardware.
const div5Mul = (1 << 16) / 5 + 2

// div5 applies the fixed-point approximation of integer division by 5.
// The multiply widens a 16-bit lane sum to 32 bits (1275*div5Mul
// overflows 16 bits), matching the widen-multiply-narrow shape a real
// vpmulhuw/shift pair would need for this sum range.
func div5(sum uint32) byte {
	return byte((sum * div5Mul) >> 16)
}

// lane widths, in pixels, the two backends process per chunk. These
// mirror the real register widths (128-bit SSE4.1, 256-bit AVX2) one
// byte per pixel lane.
const (
	laneSSE4 = 16
	laneAVX2 = 32
)

// avg5SSE4 processes each row in 16-pixel lanes.
func avg5SSE4(src, dst *Image) {
	avg5Lanes(src, dst, laneSSE4)
}

// avg5AVX2 is the same algorithm over 32-pixel lanes.
func avg5AVX2(src, dst *Image) {
	avg5Lanes(src, dst, laneAVX2)
}

// avg5Lanes computes the five-point average a full lane at a time.
// Within a lane, the west and east neighbor vectors are not read
// straight out of the source row: west is the lane's own bytes
// shifted up by one position with the previous lane's last byte (or 0
// at the row's left edge) spliced into slot 0, and east is the
// mirror image with the next lane's first byte (or 0 at the right
// edge) spliced into the top slot — the palignr/alignr_epi8 idiom for
// assembling a one-byte-misaligned neighbor vector out of two adjacent
// aligned loads. North/south neighbors need no such shift: they come
// from a direct aligned load of the row above/below at the same lane
// offset. The per-pixel sum is then widened from 8-bit source bytes to
// a 32-bit accumulator and narrowed back through div5's fixed-point
// multiply, producing output bit-identical to avg5Scalar.
func avg5Lanes(src, dst *Image, lane int) {
	w, h := src.width, src.height
	for y := 0; y < h; y++ {
		row := src.Row(y)
		var up, down []byte
		if y > 0 {
			up = src.Row(y - 1)
		}
		if y < h-1 {
			down = src.Row(y + 1)
		}
		out := dst.Row(y)

		for base := 0; base < w; base += lane {
			end := base + lane
			if end > w {
				end = w
			}
			n := end - base

			centerReg := make([]uint16, n)
			for i := 0; i < n; i++ {
				centerReg[i] = uint16(row[base+i])
			}

			westReg := make([]uint16, n)
			copy(westReg[1:], centerReg[:n-1])
			if base > 0 {
				westReg[0] = uint16(row[base-1])
			} else {
				westReg[0] = 0
			}

			eastReg := make([]uint16, n)
			copy(eastReg, centerReg[1:])
			if end < w {
				eastReg[n-1] = uint16(row[end])
			} else {
				eastReg[n-1] = 0
			}

			for i := 0; i < n; i++ {
				x := base + i
				sum := uint32(centerReg[i]) + uint32(westReg[i]) + uint32(eastReg[i])
				if up != nil {
					sum += uint32(up[x])
				}
				if down != nil {
					sum += uint32(down[x])
				}
				out[x] = div5(sum)
			}
		}
	}
}
