package engine

import "math"

// Ban removes tile t from cell i and queues the removal for propagation.
// Banning an already-removed tile is a no-op.
func (m *Model) Ban(i, t int) {
	if !m.wave[i][t] {
		return
	}
	m.wave[i][t] = false

	comp := &m.compatible[i][t]
	for d := 0; d < 4; d++ {
		comp[d] = 0
	}
	m.stack = append(m.stack, ban{cell: i, tile: t})

	m.sumsOfOnes[i]--
	m.sumsOfWeights[i] -= m.weights[t]
	m.sumsOfWeightLogWeights[i] -= m.weightLogWeights[t]

	sum := m.sumsOfWeights[i]
	if m.sumsOfOnes[i] == 0 || sum <= 0 {
		m.entropies[i] = 0
		if m.sumsOfOnes[i] == 0 {
			m.contradiction = true
		}
		return
	}
	m.entropies[i] = math.Log(sum) - m.sumsOfWeightLogWeights[i]/sum
}

// Propagate drains the ban stack. Each popped (cell, tile) removes one
// unit of support from every tile it allowed at each neighbour; a
// neighbouring tile left with no support in some direction is banned in
// turn. Returns false iff some cell ran out of candidates.
func (m *Model) Propagate() bool {
	for len(m.stack) > 0 {
		top := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]

		x1 := top.cell % m.width
		y1 := top.cell / m.width

		for d := 0; d < 4; d++ {
			x2 := x1 + dx[d]
			y2 := y1 + dy[d]
			if !m.periodic && (x2 < 0 || y2 < 0 || x2 >= m.width || y2 >= m.height) {
				continue
			}
			x2 = (x2 + m.width) % m.width
			y2 = (y2 + m.height) % m.height

			i2 := x2 + y2*m.width
			compat := m.compatible[i2]
			for _, t2 := range m.propagator[d][top.tile] {
				compat[t2][d]--
				if compat[t2][d] == 0 {
					m.Ban(i2, t2)
				}
			}
		}
	}
	return !m.contradiction
}

// Clear resets every cell to all candidates and clears observed.
//
// In grounded mode the bottom row loses every tile but the last and the
// other rows lose the last tile; the result of propagating those bans is
// returned. Non-grounded Clear always returns true.
func (m *Model) Clear() bool {
	if m.wave == nil {
		m.init()
	}

	for i := range m.wave {
		for t := 0; t < m.tiles; t++ {
			m.wave[i][t] = true
			for d := 0; d < 4; d++ {
				m.compatible[i][t][d] = len(m.propagator[opposite[d]][t])
			}
		}
		m.sumsOfOnes[i] = m.tiles
		m.sumsOfWeights[i] = m.sumOfWeights
		m.sumsOfWeightLogWeights[i] = m.sumOfWeightLogWeights
		m.entropies[i] = m.startingEntropy
		m.observed[i] = -1
	}
	m.stack = m.stack[:0]
	m.observedSoFar = 0
	m.contradiction = false
	m.steps = 0

	if !m.ground {
		return true
	}

	bottom := m.height - 1
	for x := 0; x < m.width; x++ {
		for t := 0; t < m.tiles-1; t++ {
			m.Ban(x+bottom*m.width, t)
		}
		for y := 0; y < bottom; y++ {
			m.Ban(x+y*m.width, m.tiles-1)
		}
	}
	return m.Propagate()
}
