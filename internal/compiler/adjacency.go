package compiler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/tilewave/internal/ir"
)

// DiagNoNeighbors flags a variant with no compatible partner in some
// direction. Such a variant can never be placed without a contradiction.
const DiagNoNeighbors = "E201"

// CompileTileset expands a catalog into its symmetry variants and builds the
// sparse propagator.
//
// Compilation happens in three phases:
//  1. Symmetry expansion: each base tile contributes GroupSize(sym) variants
//     and an 8-entry action map per variant (global indices).
//  2. Dense algebra: every neighbor rule is written into a 4×T×T boolean
//     matrix for all four rotations of the rule, horizontally and vertically,
//     then the reverse directions are filled in by transposition.
//  3. Sparsification: each (direction, tile) row becomes an ascending list.
//
// Unknown tile names, bad orientations, duplicate tiles and non-positive
// weights are fatal. Tiles left without partners are reported as
// Diagnostics; the tileset is still returned.
func CompileTileset(cat *ir.Catalog) (*ir.Tileset, error) {
	if cat == nil || len(cat.Tiles) == 0 {
		return nil, &CompileError{Field: "tiles", Message: "catalog declares no tiles"}
	}

	ts, first, err := expandVariants(cat)
	if err != nil {
		return nil, err
	}

	dense, err := denseAdjacency(cat, ts.Actions, first)
	if err != nil {
		return nil, err
	}

	ts.Propagator = sparsify(dense)
	ts.Diagnostics = diagnose(ts)
	for _, d := range ts.Diagnostics {
		slog.Warn("tile has no neighbors", "catalog", cat.Name, "tile", d.Tile, "direction", d.Direction.String())
	}

	return ts, nil
}

// expandVariants performs symmetry expansion. It returns the partially
// filled tileset and the index of each base tile's first variant.
func expandVariants(cat *ir.Catalog) (*ir.Tileset, map[string]int, error) {
	ts := &ir.Tileset{
		Catalog: cat.Name,
		Unique:  cat.Unique,
	}
	first := make(map[string]int, len(cat.Tiles))

	for i, tile := range cat.Tiles {
		if _, dup := first[tile.Name]; dup {
			return nil, nil, &CompileError{
				Field:   fmt.Sprintf("tiles[%d].name", i),
				Message: fmt.Sprintf("duplicate tile name: %q", tile.Name),
			}
		}
		if tile.Weight <= 0 {
			return nil, nil, &CompileError{
				Field:   fmt.Sprintf("tiles[%d].weight", i),
				Message: fmt.Sprintf("weight of tile %q must be positive, got %v", tile.Name, tile.Weight),
			}
		}
		maps, err := SymmetryMap(tile.Symmetry)
		if err != nil {
			return nil, nil, &CompileError{
				Field:   fmt.Sprintf("tiles[%d].symmetry", i),
				Message: err.Error(),
			}
		}

		base := len(ts.Actions)
		first[tile.Name] = base
		for k, m := range maps {
			for s := range m {
				m[s] += base
			}
			ts.Actions = append(ts.Actions, m)
			ts.Variants = append(ts.Variants, ir.Variant{
				Name:        fmt.Sprintf("%s %d", tile.Name, k),
				Base:        tile.Name,
				Orientation: k,
				Weight:      tile.Weight,
			})
		}
	}
	return ts, first, nil
}

// denseAdjacency writes every neighbor rule into a 4×T×T matrix.
// dense[d][t1][t2] means t2 may sit in direction d of t1.
func denseAdjacency(cat *ir.Catalog, action [][8]int, first map[string]int) ([4][][]bool, error) {
	n := len(action)
	var dense [4][][]bool
	for d := range dense {
		dense[d] = make([][]bool, n)
		for t := range dense[d] {
			dense[d][t] = make([]bool, n)
		}
	}

	for i, rule := range cat.Neighbors {
		l, err := resolveVariant(rule.Left, action, first)
		if err != nil {
			return dense, &CompileError{Field: fmt.Sprintf("neighbors[%d].left", i), Message: err.Error()}
		}
		r, err := resolveVariant(rule.Right, action, first)
		if err != nil {
			return dense, &CompileError{Field: fmt.Sprintf("neighbors[%d].right", i), Message: err.Error()}
		}
		down := action[l][1]
		up := action[r][1]

		dense[ir.Left][r][l] = true
		dense[ir.Left][action[r][6]][action[l][6]] = true
		dense[ir.Left][action[l][4]][action[r][4]] = true
		dense[ir.Left][action[l][2]][action[r][2]] = true

		dense[ir.Up][up][down] = true
		dense[ir.Up][action[down][6]][action[up][6]] = true
		dense[ir.Up][action[up][4]][action[down][4]] = true
		dense[ir.Up][action[down][2]][action[up][2]] = true
	}

	for t2 := 0; t2 < n; t2++ {
		for t1 := 0; t1 < n; t1++ {
			dense[ir.Right][t2][t1] = dense[ir.Left][t1][t2]
			dense[ir.Down][t2][t1] = dense[ir.Up][t1][t2]
		}
	}
	return dense, nil
}

// resolveVariant maps "name" or "name k" (also "name.k") to a global
// variant index through the tile's action map.
func resolveVariant(ref string, action [][8]int, first map[string]int) (int, error) {
	name, orientation, err := ParseTileRef(ref)
	if err != nil {
		return 0, err
	}
	base, ok := first[name]
	if !ok {
		return 0, fmt.Errorf("unknown tile %q", name)
	}
	return action[base][orientation], nil
}

// ParseTileRef splits a neighbor reference into tile name and orientation.
func ParseTileRef(ref string) (string, int, error) {
	fields := strings.Fields(ref)
	switch len(fields) {
	case 0:
		return "", 0, fmt.Errorf("empty tile reference")
	case 1:
		name := fields[0]
		if dot := strings.LastIndexByte(name, '.'); dot > 0 {
			if k, err := strconv.Atoi(name[dot+1:]); err == nil {
				return name[:dot], k, checkOrientation(ref, k)
			}
		}
		return name, 0, nil
	case 2:
		k, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", 0, fmt.Errorf("invalid orientation in %q", ref)
		}
		return fields[0], k, checkOrientation(ref, k)
	default:
		return "", 0, fmt.Errorf("malformed tile reference %q", ref)
	}
}

func checkOrientation(ref string, k int) error {
	if k < 0 || k > 7 {
		return fmt.Errorf("orientation %d out of range 0..7 in %q", k, ref)
	}
	return nil
}

// sparsify compresses each dense row into an ascending index list.
func sparsify(dense [4][][]bool) [4][][]int {
	var prop [4][][]int
	for d := range dense {
		prop[d] = make([][]int, len(dense[d]))
		for t1, row := range dense[d] {
			list := []int{}
			for t2, ok := range row {
				if ok {
					list = append(list, t2)
				}
			}
			prop[d][t1] = list
		}
	}
	return prop
}

// diagnose reports variants with an empty propagator row.
func diagnose(ts *ir.Tileset) []ir.Diagnostic {
	var diags []ir.Diagnostic
	for _, d := range ir.Directions {
		for t, list := range ts.Propagator[d] {
			if len(list) > 0 {
				continue
			}
			name := ts.Variants[t].Name
			diags = append(diags, ir.Diagnostic{
				Code:      DiagNoNeighbors,
				Tile:      name,
				Direction: d,
				Message:   fmt.Sprintf("tile %s has no neighbors along %s", name, d),
			})
		}
	}
	return diags
}
