package render

// Snapshot is the read-only view of a solver state. *engine.Model
// implements it.
type Snapshot interface {
	Width() int
	Height() int
	Tiles() int
	Observed() []int // -1 for unresolved cells
	Possible(i, t int) bool
	Candidates(i int) int
	Weight(t int) float64
	SumOfWeights(i int) float64
}

// resolved returns the tile at cell i, or -1 when the cell is still open.
// A cell whose only candidate survives without an explicit observation
// counts as resolved.
func resolved(snap Snapshot, observed []int, i int) int {
	if observed != nil && observed[i] >= 0 {
		return observed[i]
	}
	if snap.Candidates(i) != 1 {
		return -1
	}
	for t := 0; t < snap.Tiles(); t++ {
		if snap.Possible(i, t) {
			return t
		}
	}
	return -1
}
