package diffuse

import (
	"log/slog"

	"golang.org/x/sys/cpu"
)

// OptimizationLevel selects which backend Avg5 and PeronaMalik use to
// process image rows.
type OptimizationLevel int

const (
	// OptNone selects the portable scalar backend.
	OptNone OptimizationLevel = iota
	// OptSSE4 selects the 16-byte-lane backend.
	OptSSE4
	// OptAVX2 selects the 32-byte-lane backend.
	OptAVX2
)

func (l OptimizationLevel) String() string {
	switch l {
	case OptNone:
		return "none"
	case OptSSE4:
		return "sse4"
	case OptAVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

var best OptimizationLevel

func init() {
	best = detectBest()
	slog.Debug("diffuse: selected optimization level", "level", best.String())
}

// Best returns the highest OptimizationLevel this process's CPU supports.
func Best() OptimizationLevel {
	return best
}

func detectBest() OptimizationLevel {
	if hasAVX2() {
		return OptAVX2
	}
	if hasSSE41() {
		return OptSSE4
	}
	return OptNone
}

func hasAVX2() bool {
	return cpu.X86.HasAVX2
}

func hasSSE41() bool {
	return cpu.X86.HasSSE41
}
