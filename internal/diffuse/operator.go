package diffuse

// Operator is a single-input, single-output image transform. Avg5 and
// PeronaMalik both implement it so callers can compose or swap filters
// without depending on their concrete types.
type Operator interface {
	// Apply runs the filter over src and returns a new Image of the
	// same dimensions and alignment. src is never modified.
	Apply(src *Image) (*Image, error)
}
