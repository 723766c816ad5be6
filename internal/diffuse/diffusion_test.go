package diffuse

import (
	"fmt"
	"testing"
)

func TestPeronaMalik_ConstantImageIsFixedPoint(t *testing.T) {
	img, _ := NewImage(32, 32, true)
	for y := 0; y < 32; y++ {
		row := img.Row(y)
		for x := range row {
			row[x] = 128
		}
	}
	f := &PeronaMalik{Kappa: 10, Dt: 0.2, Times: 5}
	out, err := f.Apply(img)
	if err != nil {
		t.Fatal(err)
	}
	for y := 1; y < 31; y++ {
		for x := 1; x < 31; x++ {
			if got := out.At(x, y); got != 128 {
				t.Fatalf("interior pixel (%d,%d) = %d, want 128 (all deltas zero)", x, y, got)
			}
		}
	}
}

func TestPeronaMalik_RightBottomEdgeSaturation(t *testing.T) {
	img, _ := NewImage(32, 32, true)
	for y := 0; y < 32; y++ {
		row := img.Row(y)
		for x := range row {
			row[x] = 255
		}
	}
	f := &PeronaMalik{Kappa: 1, Dt: 1, Times: 1, Isotropic: true}
	out, err := f.Apply(img)
	if err != nil {
		t.Fatal(err)
	}
	for y := 1; y < 31; y++ {
		for x := 1; x < 31; x++ {
			if got := out.At(x, y); got != 255 {
				t.Fatalf("interior pixel (%d,%d) = %d, want 255", x, y, got)
			}
		}
	}
	// Fx(w-1,y) = -255 * kappa^2/(kappa^2+255^2) rounds toward zero to
	// 0, so the right edge is unchanged too: the whole flat 255 image
	// is a fixed point regardless of boundary handling.
	for y := 1; y < 31; y++ {
		if got := out.At(31, y); got != 255 {
			t.Fatalf("right edge pixel (31,%d) = %d, want 255", y, got)
		}
	}
}

func TestPeronaMalik_ZeroIterationsReturnsCopy(t *testing.T) {
	img := randomImage(t, 32, 32, true, 3)
	f := &PeronaMalik{Kappa: 5, Dt: 1, Times: 0}
	out, err := f.Apply(img)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if out.At(x, y) != img.At(x, y) {
				t.Fatalf("pixel (%d,%d) changed with Times=0", x, y)
			}
		}
	}
	out.Set(0, 0, out.At(0, 0)^0xFF)
	if out.At(0, 0) == img.At(0, 0) {
		t.Fatal("Apply with Times=0 aliased the source image")
	}
}

func TestPeronaMalik_RejectsZeroKappa(t *testing.T) {
	img := randomImage(t, 8, 8, false, 1)
	f := &PeronaMalik{Kappa: 0, Dt: 1, Times: 1}
	if _, err := f.Apply(img); err == nil {
		t.Fatal("expected error for kappa=0, got nil")
	}
}

func TestPeronaMalik_RejectsNegativeTimes(t *testing.T) {
	img := randomImage(t, 8, 8, false, 1)
	f := &PeronaMalik{Kappa: 1, Dt: 1, Times: -1}
	if _, err := f.Apply(img); err == nil {
		t.Fatal("expected error for negative Times, got nil")
	}
}

func TestPeronaMalik_BackendsAgree(t *testing.T) {
	sizes := []struct{ w, h int }{
		{32, 32}, {64, 17}, {96, 96},
	}
	for i, sz := range sizes {
		for _, isotropic := range []bool{false, true} {
			name := fmt.Sprintf("%dx%d/isotropic=%v", sz.w, sz.h, isotropic)
			t.Run(name, func(t *testing.T) {
				src := randomImage(t, sz.w, sz.h, true, int64(i+100))

				scalarOut, _ := NewImage(sz.w, sz.h, true)
				sse4Out, _ := NewImage(sz.w, sz.h, true)
				avx2Out, _ := NewImage(sz.w, sz.h, true)

				diffusionStepScalar(src, scalarOut, 25, 0.2, isotropic)
				diffusionStepSSE4(src, sse4Out, 25, 0.2, isotropic)
				diffusionStepAVX2(src, avx2Out, 25, 0.2, isotropic)

				for y := 0; y < sz.h; y++ {
					a, b, c := scalarOut.Row(y), sse4Out.Row(y), avx2Out.Row(y)
					for x := 0; x < sz.w; x++ {
						if a[x] != b[x] || a[x] != c[x] {
							t.Fatalf("row %d col %d: scalar=%d sse4=%d avx2=%d", y, x, a[x], b[x], c[x])
						}
					}
				}
			})
		}
	}
}

func TestSaturate_ClampsToByteRange(t *testing.T) {
	if got := saturate(250, 1000); got != 255 {
		t.Fatalf("saturate(250, 1000) = %d, want 255", got)
	}
	if got := saturate(5, -1000); got != 0 {
		t.Fatalf("saturate(5, -1000) = %d, want 0", got)
	}
	if got := saturate(100, 0); got != 100 {
		t.Fatalf("saturate(100, 0) = %d, want 100", got)
	}
}

func TestConductance_IsZeroDeltaIsFullStrength(t *testing.T) {
	if got := conductance(0, 25); got != 1 {
		t.Fatalf("conductance(0, 25) = %v, want 1", got)
	}
	if got := isoConductance(0, 0, 25); got != 1 {
		t.Fatalf("isoConductance(0, 0, 25) = %v, want 1", got)
	}
}

func TestConductance_DecaysWithGradient(t *testing.T) {
	small := conductance(1, 25)
	large := conductance(50, 25)
	if !(large < small) {
		t.Fatalf("expected conductance to decay with |delta|: small=%v large=%v", small, large)
	}
}

func TestIsoConductance_CombinesBothAxes(t *testing.T) {
	oneAxis := isoConductance(50, 0, 25)
	bothAxes := isoConductance(50, 50, 25)
	if !(bothAxes < oneAxis) {
		t.Fatalf("expected isoConductance to decay further with a second nonzero axis: oneAxis=%v bothAxes=%v", oneAxis, bothAxes)
	}
}
