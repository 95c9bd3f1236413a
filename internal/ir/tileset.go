package ir

import "fmt"

// Direction indexes the four grid neighbours.
// Opposite pairs are Left/Right and Up/Down.
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
)

// Directions lists all directions in propagation order.
var Directions = [4]Direction{Left, Up, Right, Down}

// DX and DY are the cell offsets for each direction.
var (
	DX = [4]int{-1, 0, 1, 0}
	DY = [4]int{0, 1, 0, -1}
)

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Variant is one member of a tile's symmetry group.
type Variant struct {
	Name        string  `json:"name"` // "<base> <orientation>"
	Base        string  `json:"base"`
	Orientation int     `json:"orientation"`
	Weight      float64 `json:"weight"`
}

// Diagnostic is a non-fatal configuration problem found during compilation.
type Diagnostic struct {
	Code      string    `json:"code"`
	Tile      string    `json:"tile"`
	Direction Direction `json:"direction"`
	Message   string    `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Tileset is a compiled catalog: expanded variants plus the sparse
// propagator the wave engine consumes.
//
// Propagator[d][t1] lists, in ascending order, every t2 that may occupy the
// neighbour in direction d of a cell holding t1. The relation is symmetric:
// t2 in Propagator[d][t1] iff t1 in Propagator[d.Opposite()][t2].
type Tileset struct {
	Catalog     string       `json:"catalog"`
	Unique      bool         `json:"unique"`
	Variants    []Variant    `json:"variants"`
	Actions     [][8]int     `json:"actions"`
	Propagator  [4][][]int   `json:"propagator"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Count returns the number of variants T.
func (ts *Tileset) Count() int {
	return len(ts.Variants)
}

// Weights returns the variant weights in index order.
func (ts *Tileset) Weights() []float64 {
	w := make([]float64, len(ts.Variants))
	for i, v := range ts.Variants {
		w[i] = v.Weight
	}
	return w
}

// Names returns the variant names in index order.
func (ts *Tileset) Names() []string {
	names := make([]string, len(ts.Variants))
	for i, v := range ts.Variants {
		names[i] = v.Name
	}
	return names
}

// Compatible returns the sparse propagator.
func (ts *Tileset) Compatible() [4][][]int {
	return ts.Propagator
}

// VariantIndex returns the index of the named variant, or -1.
func (ts *Tileset) VariantIndex(name string) int {
	for i, v := range ts.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}
