package engine

import (
	"math/rand"
	"strings"
)

// Heuristic selects which unresolved cell to observe next.
type Heuristic int

const (
	// Entropy picks the cell with the lowest Shannon entropy.
	Entropy Heuristic = iota
	// MRV picks the cell with the fewest remaining candidates.
	MRV
	// Scanline picks the first unresolved cell in row-major order.
	Scanline
)

func (h Heuristic) String() string {
	switch h {
	case MRV:
		return "MRV"
	case Scanline:
		return "Scanline"
	default:
		return "Entropy"
	}
}

// ParseHeuristic maps a name to a Heuristic, ignoring case.
// Unknown names fall back to Entropy.
func ParseHeuristic(name string) Heuristic {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mrv":
		return MRV
	case "scanline":
		return Scanline
	default:
		return Entropy
	}
}

// initialMin bounds the selection value; any real entropy or count is lower.
const initialMin = 1e4

// NextUnobservedNode returns the next cell to observe, or -1 when every
// cell has a single candidate left.
//
// Entropy and MRV add 1e-6*r.Float64() to the comparison value so ties are
// broken pseudo-randomly but reproducibly. Scanline consumes no randomness
// and never revisits an index below the last one it returned.
func (m *Model) NextUnobservedNode(r *rand.Rand) int {
	if m.heuristic == Scanline {
		for i := m.observedSoFar; i < len(m.wave); i++ {
			if m.sumsOfOnes[i] > 1 {
				m.observedSoFar = i + 1
				return i
			}
		}
		return -1
	}

	min := initialMin
	argmin := -1
	for i := range m.wave {
		remaining := m.sumsOfOnes[i]
		value := m.entropies[i]
		if m.heuristic == MRV {
			value = float64(remaining)
		}
		if remaining > 1 && value <= min {
			noise := 1e-6 * r.Float64()
			if value+noise < min {
				min = value + noise
				argmin = i
			}
		}
	}
	return argmin
}
