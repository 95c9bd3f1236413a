package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tilewave/internal/ir"
)

func TestGroupSize(t *testing.T) {
	tests := []struct {
		sym  ir.Symmetry
		size int
	}{
		{ir.SymmetryNone, 1},
		{"", 1},
		{ir.SymmetryI, 2},
		{ir.SymmetryDiagonal, 2},
		{ir.SymmetryL, 4},
		{ir.SymmetryT, 4},
		{ir.SymmetryF, 8},
	}
	for _, tt := range tests {
		t.Run(string(tt.sym), func(t *testing.T) {
			size, err := GroupSize(tt.sym)
			require.NoError(t, err)
			assert.Equal(t, tt.size, size)
		})
	}

	_, err := GroupSize("Q")
	assert.Error(t, err)
}

func TestSymmetryMap_KnownRows(t *testing.T) {
	tests := []struct {
		sym    ir.Symmetry
		member int
		want   [8]int
	}{
		{ir.SymmetryL, 0, [8]int{0, 1, 2, 3, 1, 0, 3, 2}},
		{ir.SymmetryL, 1, [8]int{1, 2, 3, 0, 0, 3, 2, 1}},
		{ir.SymmetryT, 0, [8]int{0, 1, 2, 3, 0, 3, 2, 1}},
		{ir.SymmetryI, 0, [8]int{0, 1, 0, 1, 0, 1, 0, 1}},
		{ir.SymmetryI, 1, [8]int{1, 0, 1, 0, 1, 0, 1, 0}},
		{ir.SymmetryDiagonal, 0, [8]int{0, 1, 0, 1, 1, 0, 1, 0}},
		{ir.SymmetryF, 0, [8]int{0, 1, 2, 3, 4, 5, 6, 7}},
		{ir.SymmetryF, 4, [8]int{4, 7, 6, 5, 0, 3, 2, 1}},
		{ir.SymmetryNone, 0, [8]int{0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		maps, err := SymmetryMap(tt.sym)
		require.NoError(t, err)
		assert.Equal(t, tt.want, maps[tt.member], "class %s member %d", tt.sym, tt.member)
	}
}

func TestSymmetryGroups_FourQuarterTurnsIsIdentity(t *testing.T) {
	for sym, g := range symmetryGroups {
		for i := 0; i < g.size; i++ {
			assert.Equal(t, i, g.a(g.a(g.a(g.a(i)))), "class %s member %d", sym, i)
		}
	}
}

func TestSymmetryGroups_ReflectionIsInvolution(t *testing.T) {
	for sym, g := range symmetryGroups {
		for i := 0; i < g.size; i++ {
			assert.Equal(t, i, g.b(g.b(i)), "class %s member %d", sym, i)
		}
	}
}

func TestSymmetryGroups_TwoMemberClassesAreInvolutions(t *testing.T) {
	for _, sym := range []ir.Symmetry{ir.SymmetryI, ir.SymmetryDiagonal} {
		g := symmetryGroups[sym]
		for i := 0; i < g.size; i++ {
			assert.Equal(t, i, g.a(g.a(i)), "class %s member %d", sym, i)
		}
	}
}

func TestSymmetryF_FullCycleReturnsToIdentity(t *testing.T) {
	g := symmetryGroups[ir.SymmetryF]
	for i := 0; i < g.size; i++ {
		j := i
		for k := 0; k < 4; k++ {
			j = g.a(j)
		}
		j = g.b(j)
		for k := 0; k < 4; k++ {
			j = g.a(j)
		}
		j = g.b(j)
		assert.Equal(t, i, j, "member %d", i)
	}
}

func TestSymmetryMap_StaysInsideGroup(t *testing.T) {
	for sym, g := range symmetryGroups {
		maps, err := SymmetryMap(sym)
		require.NoError(t, err)
		require.Len(t, maps, g.size)
		for _, row := range maps {
			for _, m := range row {
				assert.GreaterOrEqual(t, m, 0)
				assert.Less(t, m, g.size)
			}
		}
	}
}
