// Code generated to mirror the vectorized PeronaMalik kernel described
// in diffusion.go — re-expressed as target-independent chunked-lane Go
// rather than hand-written Plan9 assembly, with per-architecture
// backends gated by CPU feature detection (see optlevel.go).

//go:build amd64

package diffuse

// diffusionStepSSE4 and diffusionStepAVX2 both call diffusionStepLanes
// with their register's pixel width (16 bytes for a 128-bit SSE4
// register, 32 for a 256-bit AVX2 register). Within a lane, the east
// neighbor vector is not read straight out of the source row: it is
// built by shifting the lane's own bytes left by one and splicing in
// either the first byte of the next lane or a zero at the row's right
// edge — the data movement a real kernel gets from palignr/alignr_epi8
// across two adjacent register loads. That spliced byte is the one
// piece of state that crosses a lane boundary; everything else (the
// flux/conductance math, the left-to-right lastFx carry, the
// top-to-bottom Y-flux cache) is identical to diffusionStepScalar, so
// all three backends remain bit-identical by construction.
func diffusionStepSSE4(cur, next *Image, kappaSq, dt float64, isotropic bool) {
	diffusionStepLanes(cur, next, kappaSq, dt, isotropic, laneSSE4)
}

func diffusionStepAVX2(cur, next *Image, kappaSq, dt float64, isotropic bool) {
	diffusionStepLanes(cur, next, kappaSq, dt, isotropic, laneAVX2)
}

func diffusionStepLanes(cur, next *Image, kappaSq, dt float64, isotropic bool, lane int) {
	w, h := cur.width, cur.height

	yFlux := make([]float64, w) // yFlux[x] = Fy(x, y-1), a full row's worth carried row-to-row

	for y := 0; y < h; y++ {
		row := cur.Row(y)
		var downRow []byte
		hasDown := y < h-1
		if hasDown {
			downRow = cur.Row(y + 1)
		}
		out := next.Row(y)
		newYFlux := make([]float64, w)

		var lastFx float64 // Fx(x-1, y); carries across lane boundaries within the row

		for base := 0; base < w; base += lane {
			end := base + lane
			if end > w {
				end = w
			}
			n := end - base

			// centerReg/southReg: a direct aligned load of n pixel bytes,
			// widened to 16-bit lanes.
			centerReg := make([]int16, n)
			for i := 0; i < n; i++ {
				centerReg[i] = int16(row[base+i])
			}
			var southReg []int16
			if hasDown {
				southReg = make([]int16, n)
				for i := 0; i < n; i++ {
					southReg[i] = int16(downRow[base+i])
				}
			}

			// eastReg: centerReg shifted down by one lane position,
			// splicing the next lane's first byte (or 0, at the row's
			// right edge) into the top slot.
			eastReg := make([]int16, n)
			copy(eastReg, centerReg[1:])
			if end < w {
				eastReg[n-1] = int16(row[end])
			} else {
				eastReg[n-1] = 0
			}

			for i := 0; i < n; i++ {
				x := base + i
				center := float64(centerReg[i])

				dx := float64(eastReg[i]) - center
				var dy float64
				if hasDown {
					dy = float64(southReg[i]) - center
				} else {
					dy = -center
				}

				// Flux computation widens again, from the 16-bit
				// differences to the float64 lanes a real kernel would
				// hold in 32-bit (single-precision) registers for the
				// conductance divide.
				fx, fy := flux(dx, dy, kappaSq, isotropic)

				divergence := (fx - lastFx) + (fy - yFlux[x])
				out[x] = saturate(row[x], dt*divergence) // saturating pack back to a byte lane

				lastFx = fx
				newYFlux[x] = fy
			}
		}

		yFlux = newYFlux
	}
}
