package compiler

import (
	"fmt"

	"github.com/roach88/tilewave/internal/ir"
)

// symmetryGroup describes a symmetry class by its group size and two
// generators: a maps a member to its quarter-turn successor, b to its
// reflection.
type symmetryGroup struct {
	size int
	a    func(int) int
	b    func(int) int
}

// symmetryGroups is the closed set of supported classes.
var symmetryGroups = map[ir.Symmetry]symmetryGroup{
	ir.SymmetryL: {
		size: 4,
		a:    func(i int) int { return (i + 1) % 4 },
		b: func(i int) int {
			if i%2 == 0 {
				return i + 1
			}
			return i - 1
		},
	},
	ir.SymmetryT: {
		size: 4,
		a:    func(i int) int { return (i + 1) % 4 },
		b: func(i int) int {
			if i%2 == 0 {
				return i
			}
			return 4 - i
		},
	},
	ir.SymmetryI: {
		size: 2,
		a:    func(i int) int { return 1 - i },
		b:    func(i int) int { return i },
	},
	ir.SymmetryDiagonal: {
		size: 2,
		a:    func(i int) int { return 1 - i },
		b:    func(i int) int { return 1 - i },
	},
	ir.SymmetryF: {
		size: 8,
		a: func(i int) int {
			if i < 4 {
				return (i + 1) % 4
			}
			return 4 + (i-1)%4
		},
		b: func(i int) int {
			if i < 4 {
				return i + 4
			}
			return i - 4
		},
	},
	ir.SymmetryNone: {
		size: 1,
		a:    func(i int) int { return i },
		b:    func(i int) int { return i },
	},
}

// GroupSize returns the number of variants a symmetry class expands to.
func GroupSize(sym ir.Symmetry) (int, error) {
	g, ok := symmetryGroups[normalizeSymmetry(sym)]
	if !ok {
		return 0, fmt.Errorf("unknown symmetry %q", sym)
	}
	return g.size, nil
}

// SymmetryMap returns, for each member of the class, the member reached
// after 0..3 quarter turns (entries 0-3) and after the same turns followed
// by one reflection (entries 4-7). Indices are local to the tile.
func SymmetryMap(sym ir.Symmetry) ([][8]int, error) {
	g, ok := symmetryGroups[normalizeSymmetry(sym)]
	if !ok {
		return nil, fmt.Errorf("unknown symmetry %q", sym)
	}

	maps := make([][8]int, g.size)
	for t := 0; t < g.size; t++ {
		a, b := g.a, g.b
		maps[t] = [8]int{
			t,
			a(t),
			a(a(t)),
			a(a(a(t))),
			b(t),
			b(a(t)),
			b(a(a(t))),
			b(a(a(a(t)))),
		}
	}
	return maps, nil
}

// normalizeSymmetry maps the empty class to "X".
func normalizeSymmetry(sym ir.Symmetry) ir.Symmetry {
	if sym == "" {
		return ir.SymmetryNone
	}
	return sym
}
