package diffuse

// diffusionStepScalar runs one Euler step of Perona-Malik diffusion
// from cur into next (cur and next must be distinct, equally-sized
// images). dt is the step size; kappaSq is Kappa*Kappa; isotropic
// selects the single shared conductance of isoConductance instead of
// one conductance per axis.
//
// The divergence at (x,y) is (Fx(x,y)-Fx(x-1,y)) + (Fy(x,y)-Fy(x,y-1)),
// using only forward differences Dx(x,y)=I(x+1,y)-I(x,y) and
// Dy(x,y)=I(x,y+1)-I(x,y) (zero-padded at the right/bottom edge). Two
// running caches avoid recomputing a flux twice:
//   - lastFx holds Fx(x-1,y), the flux just produced one column back;
//     reset to 0 at the start of every row (Fx(-1,·)=0).
//   - yFlux[x] holds Fy(x,y-1), the south-going flux the row above
//     left behind; zeroed at the start of every iteration (Fy(·,-1)=0
//     re-asserted each call, never hoisted out of the loop).
func diffusionStepScalar(cur, next *Image, kappaSq, dt float64, isotropic bool) {
	w, h := cur.width, cur.height

	yFlux := make([]float64, w) // yFlux[x] = Fy(x, y-1)

	for y := 0; y < h; y++ {
		row := cur.Row(y)
		var downRow []byte
		hasDown := y < h-1
		if hasDown {
			downRow = cur.Row(y + 1)
		}
		out := next.Row(y)

		newYFlux := make([]float64, w)
		var lastFx float64 // Fx(x-1, y); 0 at x == 0

		for x := 0; x < w; x++ {
			center := float64(row[x])

			var dx float64
			if x < w-1 {
				dx = float64(row[x+1]) - center
			} else {
				dx = -center
			}
			var dy float64
			if hasDown {
				dy = float64(downRow[x]) - center
			} else {
				dy = -center
			}

			fx, fy := flux(dx, dy, kappaSq, isotropic)

			divergence := (fx - lastFx) + (fy - yFlux[x])
			out[x] = saturate(row[x], dt*divergence)

			lastFx = fx
			newYFlux[x] = fy
		}

		yFlux = newYFlux
	}
}
