package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tilewave/internal/ir"
)

// DefaultWeight is used for tiles that declare no weight.
const DefaultWeight = 1.0

// CompileCatalog parses a CUE value into a tile Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the catalog struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`tileset: knots: { tiles: [...], neighbors: [...] }`)
//	cat, err := CompileCatalog(v.LookupPath(cue.ParsePath("tileset.knots")))
//
// Only the shape is checked here. Cross references (unknown tile names,
// duplicate names, weights) are reported by Validate and CompileTileset.
func CompileCatalog(v cue.Value) (*ir.Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cat := &ir.Catalog{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		cat.Name = labels[len(labels)-1].String()
	}

	uniqueVal := v.LookupPath(cue.ParsePath("unique"))
	if uniqueVal.Exists() {
		unique, err := uniqueVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cat.Unique = unique
	}

	tilesVal := v.LookupPath(cue.ParsePath("tiles"))
	if !tilesVal.Exists() {
		return nil, &CompileError{
			Field:   "tiles",
			Message: "tiles are required",
			Pos:     v.Pos(),
		}
	}
	tiles, err := parseTiles(tilesVal)
	if err != nil {
		return nil, err
	}
	cat.Tiles = tiles

	neighborsVal := v.LookupPath(cue.ParsePath("neighbors"))
	if neighborsVal.Exists() {
		rules, err := parseNeighbors(neighborsVal)
		if err != nil {
			return nil, err
		}
		cat.Neighbors = rules
	}

	return cat, nil
}

// parseTiles extracts the ordered tile declarations.
func parseTiles(v cue.Value) ([]ir.TileDecl, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tiles []ir.TileDecl
	for iter.Next() {
		tv := iter.Value()

		name, err := tv.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("tiles[%d].name", len(tiles)),
				Message: "tile name is required",
				Pos:     tv.Pos(),
			}
		}

		tile := ir.TileDecl{
			Name:     name,
			Symmetry: ir.SymmetryNone,
			Weight:   DefaultWeight,
		}

		symVal := tv.LookupPath(cue.ParsePath("symmetry"))
		if symVal.Exists() {
			sym, err := symVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			tile.Symmetry = ir.Symmetry(sym)
		}

		weightVal := tv.LookupPath(cue.ParsePath("weight"))
		if weightVal.Exists() {
			w, err := weightVal.Float64()
			if err != nil {
				return nil, &CompileError{
					Field:   fmt.Sprintf("tiles[%d].weight", len(tiles)),
					Message: fmt.Sprintf("weight of tile %q must be a number", name),
					Pos:     weightVal.Pos(),
				}
			}
			tile.Weight = w
		}

		tiles = append(tiles, tile)
	}
	return tiles, nil
}

// parseNeighbors extracts the ordered neighbor rules.
func parseNeighbors(v cue.Value) ([]ir.NeighborRule, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []ir.NeighborRule
	for iter.Next() {
		nv := iter.Value()
		left, err := nv.LookupPath(cue.ParsePath("left")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("neighbors[%d].left", len(rules)),
				Message: "left tile is required",
				Pos:     nv.Pos(),
			}
		}
		right, err := nv.LookupPath(cue.ParsePath("right")).String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("neighbors[%d].right", len(rules)),
				Message: "right tile is required",
				Pos:     nv.Pos(),
			}
		}
		rules = append(rules, ir.NeighborRule{Left: left, Right: right})
	}
	return rules, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
