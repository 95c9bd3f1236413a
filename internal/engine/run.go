package engine

import (
	"log/slog"
	"math/rand"
)

// Run solves the grid with a generator seeded by seed.
//
// Each step selects a cell, observes it and propagates. A negative limit
// means unbounded. Returns false on contradiction, leaving the wave in its
// failed state. Returns true when every cell is resolved (observed is then
// fully populated) or when the step limit is reached first (unresolved
// cells stay -1 in Observed).
func (m *Model) Run(seed int64, limit int) bool {
	if !m.Clear() {
		slog.Debug("ground constraints contradict", "seed", seed)
		return false
	}
	r := rand.New(rand.NewSource(seed))

	for l := 0; l < limit || limit < 0; l++ {
		node := m.NextUnobservedNode(r)
		if node < 0 {
			m.collapse()
			return true
		}

		m.Observe(node, r)
		m.steps++
		if !m.Propagate() {
			slog.Debug("contradiction", "seed", seed, "step", m.steps, "cell", node)
			return false
		}
	}
	slog.Debug("step limit reached", "seed", seed, "limit", limit)
	return true
}

// collapse copies the single surviving tile of every cell into observed.
func (m *Model) collapse() {
	for i := range m.wave {
		for t := 0; t < m.tiles; t++ {
			if m.wave[i][t] {
				m.observed[i] = t
				break
			}
		}
	}
}

// Observe resolves cell node to one of its candidates, drawn by weight,
// and bans the rest.
func (m *Model) Observe(node int, r *rand.Rand) {
	w := m.wave[node]
	for t := 0; t < m.tiles; t++ {
		if w[t] {
			m.distribution[t] = m.weights[t]
		} else {
			m.distribution[t] = 0
		}
	}
	chosen := WeightedIndex(m.distribution, r.Float64())
	for t := 0; t < m.tiles; t++ {
		if w[t] != (t == chosen) {
			m.Ban(node, t)
		}
	}
}

// WeightedIndex returns the first index whose prefix sum reaches
// draw*sum(dist), with draw in [0, 1). Returns 0 if none does.
func WeightedIndex(dist []float64, draw float64) int {
	var sum float64
	for _, w := range dist {
		sum += w
	}
	threshold := draw * sum

	var partial float64
	for i, w := range dist {
		partial += w
		if partial >= threshold {
			return i
		}
	}
	return 0
}
