package engine

import (
	"math"
)

// Tiles is the compiled tileset the engine consumes.
//
// Compatible()[d][t1] lists every t2 allowed at the neighbour in direction d
// of a cell holding t1. ir.Tileset implements it.
type Tiles interface {
	Count() int
	Weights() []float64
	Compatible() [4][][]int
}

// Directions follow ir.Direction: left, up, right, down.
var (
	dx       = [4]int{-1, 0, 1, 0}
	dy       = [4]int{0, 1, 0, -1}
	opposite = [4]int{2, 3, 0, 1}
)

// ban is one pending (cell, tile) removal on the propagation stack.
type ban struct {
	cell int
	tile int
}

// Model is a wave function collapse solver over a width x height grid.
type Model struct {
	width, height int
	periodic      bool
	ground        bool
	heuristic     Heuristic

	tiles      int
	weights    []float64
	propagator [4][][]int

	// Allocated lazily by init on the first Run or Clear.
	wave       [][]bool
	compatible [][][4]int
	observed   []int
	stack      []ban

	weightLogWeights      []float64
	distribution          []float64
	sumOfWeights          float64
	sumOfWeightLogWeights float64
	startingEntropy       float64

	sumsOfOnes             []int
	sumsOfWeights          []float64
	sumsOfWeightLogWeights []float64
	entropies              []float64

	observedSoFar int
	contradiction bool
	steps         int
}

// Option configures a Model.
type Option func(*Model)

// WithPeriodic makes the grid wrap around on both axes.
func WithPeriodic(periodic bool) Option {
	return func(m *Model) {
		m.periodic = periodic
	}
}

// WithGround pins the last tile to the bottom row and the others above it.
func WithGround(ground bool) Option {
	return func(m *Model) {
		m.ground = ground
	}
}

// WithHeuristic selects the cell-selection heuristic (default Entropy).
func WithHeuristic(h Heuristic) Option {
	return func(m *Model) {
		m.heuristic = h
	}
}

// New creates a Model for the tileset on a width x height grid.
//
// The weights and propagator are copied; later changes to ts do not affect
// the Model. Width and height must be positive and ts must have at least
// one tile.
func New(ts Tiles, width, height int, opts ...Option) *Model {
	weights := ts.Weights()
	m := &Model{
		width:     width,
		height:    height,
		heuristic: Entropy,
		tiles:     ts.Count(),
		weights:   append([]float64(nil), weights...),
	}

	src := ts.Compatible()
	for d := 0; d < 4; d++ {
		m.propagator[d] = make([][]int, len(src[d]))
		for t, list := range src[d] {
			m.propagator[d][t] = append([]int(nil), list...)
		}
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// init allocates the wave and precomputes the weight aggregates.
func (m *Model) init() {
	cells := m.width * m.height
	m.wave = make([][]bool, cells)
	m.compatible = make([][][4]int, cells)
	for i := range m.wave {
		m.wave[i] = make([]bool, m.tiles)
		m.compatible[i] = make([][4]int, m.tiles)
	}
	m.observed = make([]int, cells)
	m.distribution = make([]float64, m.tiles)

	m.weightLogWeights = make([]float64, m.tiles)
	m.sumOfWeights = 0
	m.sumOfWeightLogWeights = 0
	for t, w := range m.weights {
		m.weightLogWeights[t] = w * math.Log(w)
		m.sumOfWeights += w
		m.sumOfWeightLogWeights += m.weightLogWeights[t]
	}
	m.startingEntropy = math.Log(m.sumOfWeights) - m.sumOfWeightLogWeights/m.sumOfWeights

	m.sumsOfOnes = make([]int, cells)
	m.sumsOfWeights = make([]float64, cells)
	m.sumsOfWeightLogWeights = make([]float64, cells)
	m.entropies = make([]float64, cells)

	m.stack = make([]ban, 0, cells*m.tiles)
}

// Width returns the grid width in cells.
func (m *Model) Width() int { return m.width }

// Height returns the grid height in cells.
func (m *Model) Height() int { return m.height }

// Tiles returns the number of tile variants T.
func (m *Model) Tiles() int { return m.tiles }

// Weight returns the weight of tile t.
func (m *Model) Weight(t int) float64 { return m.weights[t] }

// Steps returns the number of observations performed by the last Run.
func (m *Model) Steps() int { return m.steps }

// Observed returns a copy of the resolved grid in row-major order.
// Unresolved cells hold -1. Nil before the first Run or Clear.
func (m *Model) Observed() []int {
	if m.observed == nil {
		return nil
	}
	return append([]int(nil), m.observed...)
}

// Possible reports whether tile t is still a candidate at cell i.
func (m *Model) Possible(i, t int) bool {
	return m.wave != nil && m.wave[i][t]
}

// Candidates returns the number of tiles still possible at cell i.
func (m *Model) Candidates(i int) int {
	if m.sumsOfOnes == nil {
		return m.tiles
	}
	return m.sumsOfOnes[i]
}

// SumOfWeights returns the summed weight of the candidates at cell i.
func (m *Model) SumOfWeights(i int) float64 {
	if m.sumsOfWeights == nil {
		return m.sumOfWeightsAll()
	}
	return m.sumsOfWeights[i]
}

// Entropy returns the Shannon entropy of cell i's candidate distribution.
func (m *Model) Entropy(i int) float64 {
	if m.entropies == nil {
		return 0
	}
	return m.entropies[i]
}

func (m *Model) sumOfWeightsAll() float64 {
	var sum float64
	for _, w := range m.weights {
		sum += w
	}
	return sum
}
