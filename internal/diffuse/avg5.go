package diffuse

import (
	"fmt"
	"log/slog"
	"time"
)

// Avg5 is a single-pass five-point smoothing filter: every output
// pixel is the average of itself and its
// four orthogonal neighbors (up, down, left, right), with missing
// neighbors past the image border contributing zero. It is a standalone
// Operator; the run command does not apply it.
//
// Architecture-specific implementations:
//   - avg5_scalar.go: portable reference, exact integer division by 5
//   - avg5_amd64.go:  sse4/avx2 lane-chunked backends, division by 5
//     approximated with a fixed-point multiply (see avg5_amd64.go)
//
// Runtime dispatch picks a backend by Level, defaulting to Best() when
// Level is the zero value and the caller has not pinned one explicitly.
type Avg5 struct {
	// Level pins a backend. The zero value (OptNone) means "use the
	// best level this process detected at startup" only when Pin is
	// false; set Pin to force OptNone itself.
	Level OptimizationLevel
	Pin   bool

	// Stats, if non-nil, records each Apply call's wall-clock duration
	// under the label "avg5".
	Stats *Stats
}

// Apply runs the 5-point average filter over src and returns a new
// Image of the same dimensions and alignment.
func (f *Avg5) Apply(src *Image) (*Image, error) {
	if !src.aligned {
		return nil, fmt.Errorf("diffuse: avg5: input image is not aligned")
	}
	dst, err := NewImage(src.width, src.height, src.aligned)
	if err != nil {
		return nil, fmt.Errorf("diffuse: avg5: %w", err)
	}

	level := f.Level
	if !f.Pin && level == OptNone {
		level = Best()
	}

	start := time.Now()
	switch level {
	case OptAVX2:
		avg5AVX2(src, dst)
	case OptSSE4:
		avg5SSE4(src, dst)
	default:
		avg5Scalar(src, dst)
	}
	f.Stats.Record("avg5", time.Since(start))
	slog.Debug("diffuse: avg5 applied", "level", level.String(), "width", src.width, "height", src.height)

	return dst, nil
}

// CompareAvg5Implementations runs all three backends over src and
// reports whether they agree byte-for-byte. It is used by tests to
// validate the fixed-point SIMD approximation against the scalar
// reference rather than trusting floating-point tolerance.
func CompareAvg5Implementations(src *Image) (match bool, err error) {
	scalarOut, err := NewImage(src.width, src.height, src.aligned)
	if err != nil {
		return false, err
	}
	sse4Out, err := NewImage(src.width, src.height, src.aligned)
	if err != nil {
		return false, err
	}
	avx2Out, err := NewImage(src.width, src.height, src.aligned)
	if err != nil {
		return false, err
	}

	avg5Scalar(src, scalarOut)
	avg5SSE4(src, sse4Out)
	avg5AVX2(src, avx2Out)

	for y := 0; y < src.height; y++ {
		a, b, c := scalarOut.Row(y), sse4Out.Row(y), avx2Out.Row(y)
		for x := 0; x < src.width; x++ {
			if a[x] != b[x] || a[x] != c[x] {
				return false, nil
			}
		}
	}
	return true, nil
}
