package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tilewave/internal/compiler"
	"github.com/roach88/tilewave/internal/ir"
)

// SoloCatalog is a single tile compatible with itself on every side.
func SoloCatalog() *ir.Catalog {
	return &ir.Catalog{
		Name:      "solo",
		Tiles:     []ir.TileDecl{{Name: "grass", Symmetry: ir.SymmetryNone, Weight: 1}},
		Neighbors: []ir.NeighborRule{{Left: "grass", Right: "grass"}},
	}
}

// IslandsCatalog has two tiles that only touch themselves.
func IslandsCatalog() *ir.Catalog {
	return &ir.Catalog{
		Name: "islands",
		Tiles: []ir.TileDecl{
			{Name: "a", Symmetry: ir.SymmetryNone, Weight: 1},
			{Name: "b", Symmetry: ir.SymmetryNone, Weight: 1},
		},
		Neighbors: []ir.NeighborRule{
			{Left: "a", Right: "a"},
			{Left: "b", Right: "b"},
		},
	}
}

// SkyGroundCatalog is two mutually compatible tiles; "ground" is the last
// variant, so grounded runs put it on the bottom row only.
func SkyGroundCatalog() *ir.Catalog {
	return &ir.Catalog{
		Name: "skyground",
		Tiles: []ir.TileDecl{
			{Name: "sky", Symmetry: ir.SymmetryNone, Weight: 1},
			{Name: "ground", Symmetry: ir.SymmetryNone, Weight: 1},
		},
		Neighbors: []ir.NeighborRule{
			{Left: "sky", Right: "sky"},
			{Left: "ground", Right: "ground"},
			{Left: "sky", Right: "ground"},
		},
	}
}

// MeadowCatalog is three weighted tiles, each compatible with every other.
func MeadowCatalog() *ir.Catalog {
	return &ir.Catalog{
		Name: "meadow",
		Tiles: []ir.TileDecl{
			{Name: "grass", Symmetry: ir.SymmetryNone, Weight: 3},
			{Name: "flower", Symmetry: ir.SymmetryNone, Weight: 1},
			{Name: "stone", Symmetry: ir.SymmetryNone, Weight: 0.5},
		},
		Neighbors: []ir.NeighborRule{
			{Left: "grass", Right: "grass"},
			{Left: "grass", Right: "flower"},
			{Left: "grass", Right: "stone"},
			{Left: "flower", Right: "flower"},
			{Left: "flower", Right: "stone"},
			{Left: "stone", Right: "stone"},
		},
	}
}

// KnotsCatalog is a small pipe set exercising the L, I, T and X classes.
func KnotsCatalog() *ir.Catalog {
	return &ir.Catalog{
		Name: "knots",
		Tiles: []ir.TileDecl{
			{Name: "corner", Symmetry: ir.SymmetryL, Weight: 1},
			{Name: "cross", Symmetry: ir.SymmetryI, Weight: 1},
			{Name: "empty", Symmetry: ir.SymmetryNone, Weight: 1},
			{Name: "line", Symmetry: ir.SymmetryI, Weight: 1},
			{Name: "t", Symmetry: ir.SymmetryT, Weight: 0.5},
		},
		Neighbors: []ir.NeighborRule{
			{Left: "corner 1", Right: "corner"},
			{Left: "corner", Right: "cross"},
			{Left: "corner", Right: "cross 1"},
			{Left: "corner 1", Right: "empty"},
			{Left: "corner", Right: "line"},
			{Left: "corner 1", Right: "line 1"},
			{Left: "corner", Right: "t 1"},
			{Left: "corner 1", Right: "t 3"},
			{Left: "cross", Right: "cross"},
			{Left: "cross", Right: "line"},
			{Left: "empty", Right: "empty"},
			{Left: "empty", Right: "line 1"},
			{Left: "line", Right: "line"},
			{Left: "line 1", Right: "line 1"},
			{Left: "t", Right: "t 2"},
			{Left: "t 1", Right: "line 1"},
			{Left: "t 3", Right: "empty"},
			{Left: "empty", Right: "t 1"},
		},
	}
}

// MustCompile compiles cat and fails the test on error.
func MustCompile(t testing.TB, cat *ir.Catalog) *ir.Tileset {
	t.Helper()
	ts, err := compiler.CompileTileset(cat)
	require.NoError(t, err)
	return ts
}

// CatalogCUE renders the CUE source for SoloCatalog, SkyGroundCatalog and
// IslandsCatalog, for loaders that read files.
const CatalogCUE = `
tileset: solo: {
	tiles: [{name: "grass"}]
	neighbors: [{left: "grass", right: "grass"}]
}

tileset: skyground: {
	tiles: [{name: "sky"}, {name: "ground"}]
	neighbors: [
		{left: "sky", right: "sky"},
		{left: "ground", right: "ground"},
		{left: "sky", right: "ground"},
	]
}

tileset: islands: {
	tiles: [{name: "a"}, {name: "b"}]
	neighbors: [
		{left: "a", right: "a"},
		{left: "b", right: "b"},
	]
}
`
