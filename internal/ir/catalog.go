package ir

// Symmetry is the dihedral-subgroup signature of a tile.
// It controls how many rotated/reflected variants the tile expands to.
type Symmetry string

const (
	SymmetryNone     Symmetry = "X"
	SymmetryI        Symmetry = "I"
	SymmetryDiagonal Symmetry = `\`
	SymmetryL        Symmetry = "L"
	SymmetryT        Symmetry = "T"
	SymmetryF        Symmetry = "F"
)

// ValidSymmetries lists the accepted symmetry classes.
var ValidSymmetries = map[Symmetry]bool{
	SymmetryNone:     true,
	SymmetryI:        true,
	SymmetryDiagonal: true,
	SymmetryL:        true,
	SymmetryT:        true,
	SymmetryF:        true,
}

// TileDecl is a base tile as declared in a catalog.
type TileDecl struct {
	Name     string   `json:"name"`
	Symmetry Symmetry `json:"symmetry"`
	Weight   float64  `json:"weight"`
}

// NeighborRule declares that Left may sit directly left of Right.
// Each side is "name" or "name <orientation>" (orientation 0..7).
type NeighborRule struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Catalog is a parsed tile catalog, before symmetry expansion.
type Catalog struct {
	Name      string         `json:"name"`
	Unique    bool           `json:"unique"`
	Tiles     []TileDecl     `json:"tiles"`
	Neighbors []NeighborRule `json:"neighbors"`
}

// Tile returns the declaration with the given name.
func (c *Catalog) Tile(name string) (TileDecl, bool) {
	for _, t := range c.Tiles {
		if t.Name == name {
			return t, true
		}
	}
	return TileDecl{}, false
}
