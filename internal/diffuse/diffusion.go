package diffuse

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// PeronaMalik implements Perona-Malik diffusion: each iteration moves
// every pixel toward its four orthogonal neighbors in proportion to a
// conductance function of the local gradient, then the rule is applied
// Times times with an explicit Euler step of size Dt.
//
// When Isotropic is false (the default, anisotropic), each axis gets
// its own edge-stopping conductance: gx = kappa^2/(kappa^2+Dx^2), gy =
// kappa^2/(kappa^2+Dy^2), so a strong gradient along x alone damps
// only the x-flux. When Isotropic is true, a single conductance
// g = kappa^2/(kappa^2+Dx^2+Dy^2), derived from the combined gradient
// magnitude at that point, scales both flux components identically.
//
// Architecture-specific implementations:
//   - diffusion_scalar.go: portable reference
//   - diffusion_amd64.go:  sse4/avx2 lane-chunked backends
//
// Both backends reuse exactly the same per-pixel arithmetic as the
// scalar reference (see diffusionStepScalar); lane width only changes
// how neighbor bytes are grouped for iteration, so all three backends
// are bit-identical by construction.
type PeronaMalik struct {
	Kappa     float64
	Dt        float64
	Times     int
	Isotropic bool

	Level OptimizationLevel
	Pin   bool

	// Stats, if non-nil, records each iteration's wall-clock duration
	// under the label "peronamalik.step" and the whole Apply call under
	// "peronamalik.total".
	Stats *Stats
}

// Apply runs Times diffusion iterations over src and returns the
// result. src is never modified; with Times == 0 the returned image is
// a copy of src.
func (f *PeronaMalik) Apply(src *Image) (*Image, error) {
	if f.Times < 0 {
		return nil, fmt.Errorf("diffuse: peronamalik: negative iteration count %d", f.Times)
	}
	if f.Kappa == 0 {
		return nil, fmt.Errorf("diffuse: peronamalik: kappa must be non-zero")
	}
	if !src.aligned {
		return nil, fmt.Errorf("diffuse: peronamalik: input image is not aligned")
	}

	cur := src.Clone()
	if f.Times == 0 {
		return cur, nil
	}
	next, err := NewImage(src.width, src.height, src.aligned)
	if err != nil {
		return nil, fmt.Errorf("diffuse: peronamalik: %w", err)
	}

	level := f.Level
	if !f.Pin {
		level = Best()
	}

	totalStart := time.Now()
	kappaSq := f.Kappa * f.Kappa
	for i := 0; i < f.Times; i++ {
		start := time.Now()
		switch level {
		case OptAVX2:
			diffusionStepAVX2(cur, next, kappaSq, f.Dt, f.Isotropic)
		case OptSSE4:
			diffusionStepSSE4(cur, next, kappaSq, f.Dt, f.Isotropic)
		default:
			diffusionStepScalar(cur, next, kappaSq, f.Dt, f.Isotropic)
		}
		f.Stats.Record("peronamalik.step", time.Since(start))
		cur, next = next, cur
	}
	f.Stats.Record("peronamalik.total", time.Since(totalStart))
	slog.Debug("diffuse: peronamalik applied",
		"level", level.String(), "times", f.Times, "kappa", f.Kappa, "dt", f.Dt, "isotropic", f.Isotropic)

	return cur, nil
}

// conductance returns kappa^2/(kappa^2+delta^2), the anisotropic
// edge-stopping function applied to a single axis's forward
// difference: it decays toward zero as |delta| grows, so a sharp edge
// along that axis blocks flux across it while a flat region (delta
// near 0) conducts at nearly full strength.
func conductance(delta, kappaSq float64) float64 {
	return kappaSq / (kappaSq + delta*delta)
}

// isoConductance returns kappa^2/(kappa^2+dx^2+dy^2), the isotropic
// edge-stopping function: a single conductance shared by both flux
// components, driven by the combined gradient magnitude at a point
// rather than each axis independently.
func isoConductance(dx, dy, kappaSq float64) float64 {
	return kappaSq / (kappaSq + dx*dx + dy*dy)
}

// flux computes the forward-difference-weighted flux pair (Fx, Fy) at
// one grid point: Fx = Dx*gx, Fy = Dy*gy, where gx/gy come from
// conductance (anisotropic) or both share isoConductance (isotropic).
func flux(dx, dy, kappaSq float64, isotropic bool) (fx, fy float64) {
	if isotropic {
		g := isoConductance(dx, dy, kappaSq)
		return dx * g, dy * g
	}
	return dx * conductance(dx, kappaSq), dy * conductance(dy, kappaSq)
}

// saturate rounds raw toward zero, clamps the result to the int16
// range, adds it to base as a 16-bit value, and clamps the sum to
// [0, 255].
func saturate(base byte, raw float64) byte {
	v := int32(raw) // Go float->int conversion truncates toward zero
	switch {
	case v < math.MinInt16:
		v = math.MinInt16
	case v > math.MaxInt16:
		v = math.MaxInt16
	}
	sum := int32(base) + v
	switch {
	case sum < 0:
		sum = 0
	case sum > 255:
		sum = 255
	}
	return byte(sum)
}
