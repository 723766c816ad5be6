// Package imageio loads and saves the grayscale images internal/diffuse
// operates on, extracting a single luminance channel from whatever
// color model the source PNG uses and re-encoding results as RGBA.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/cwbudde/pmdiffuse/internal/diffuse"
)

// Load decodes a PNG from path and extracts its luminance channel into
// a diffuse.Image.
//
// Two extraction rules apply depending on what Go's decoder determines
// the source color model to be:
//   - YCbCr-sourced images (image.YCbCr, the model Go's JPEG decoder
//     produces; Go's PNG decoder never returns it) use the Y plane's
//     byte directly — no further weighting is needed since luma is
//     already separated out.
//   - Anything else (RGBA, NRGBA, Gray, paletted, ...) is converted
//     with the standard luma weights (0.299R + 0.587G + 0.114B),
//     rounded to nearest and clamped to [0, 255].
func Load(path string) (*diffuse.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode is Load's reader-based counterpart, used by tests and by
// callers that already have image bytes in memory.
func Decode(r io.Reader) (*diffuse.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out, err := diffuse.NewImage(width, height, false)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}

	if ycbcr, ok := src.(*image.YCbCr); ok {
		for y := 0; y < height; y++ {
			row := out.Row(y)
			for x := 0; x < width; x++ {
				row[x] = ycbcr.Y[ycbcr.YOffset(bounds.Min.X+x, bounds.Min.Y+y)]
			}
		}
		return out, nil
	}

	for y := 0; y < height; y++ {
		row := out.Row(y)
		for x := 0; x < width; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA() returns 16-bit-per-channel alpha-premultiplied
			// values (identical to the stored channels for opaque
			// pixels), so scale down to 8-bit before weighting.
			r8 := float64(r >> 8)
			g8 := float64(g >> 8)
			b8 := float64(b >> 8)
			lum := 0.299*r8 + 0.587*g8 + 0.114*b8
			row[x] = clampByte(math.Round(lum))
		}
	}
	return out, nil
}

// Save encodes img as a grayscale-valued RGBA PNG at path: R=G=B=the
// pixel's luminance byte, A=255.
func Save(path string, img *diffuse.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()
	if err := Encode(f, img); err != nil {
		return err
	}
	return nil
}

// Encode is Save's writer-based counterpart.
func Encode(w io.Writer, img *diffuse.Image) error {
	out := image.NewRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	for y := 0; y < img.Height(); y++ {
		row := img.Row(y)
		for x := 0; x < img.Width(); x++ {
			v := row[x]
			out.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("imageio: encode: %w", err)
	}
	return nil
}

// Equal reports whether two images have identical dimensions and
// byte-exact pixel contents.
func Equal(a, b *diffuse.Image) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		ra, rb := a.Row(y), b.Row(y)
		for x := range ra {
			if ra[x] != rb[x] {
				return false
			}
		}
	}
	return true
}

func clampByte(v float64) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}
