package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTileTileset() *Tileset {
	return &Tileset{
		Catalog: "pair",
		Variants: []Variant{
			{Name: "a 0", Base: "a", Weight: 1},
			{Name: "b 0", Base: "b", Weight: 2},
		},
		Propagator: [4][][]int{
			{{0}, {1}},
			{{0}, {1}},
			{{0}, {1}},
			{{0}, {1}},
		},
	}
}

func TestTilesetHash_Stable(t *testing.T) {
	h1, err := TilesetHash(twoTileTileset())
	require.NoError(t, err)
	h2, err := TilesetHash(twoTileTileset())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestTilesetHash_SensitiveToWeights(t *testing.T) {
	a := twoTileTileset()
	b := twoTileTileset()
	b.Variants[1].Weight = 3

	ha, err := TilesetHash(a)
	require.NoError(t, err)
	hb, err := TilesetHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestTilesetHash_IgnoresCatalogName(t *testing.T) {
	a := twoTileTileset()
	b := twoTileTileset()
	b.Catalog = "renamed"

	ha, err := TilesetHash(a)
	require.NoError(t, err)
	hb, err := TilesetHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestGridHash_DomainSeparated(t *testing.T) {
	h := MustGridHash(2, 1, []int{0, 1})
	assert.NotEqual(t, h, MustGridHash(1, 2, []int{0, 1}))
	assert.NotEqual(t, h, MustGridHash(2, 1, []int{1, 0}))
	assert.Equal(t, h, MustGridHash(2, 1, []int{0, 1}))
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Down, Up.Opposite())
	assert.Equal(t, Left, Right.Opposite())
	assert.Equal(t, Up, Down.Opposite())
	assert.Equal(t, "up", Up.String())
}
