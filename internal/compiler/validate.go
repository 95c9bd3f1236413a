package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/tilewave/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrCatalogEmpty       = "E101" // no tiles declared
	ErrDuplicateTile      = "E102" // tile name declared twice
	ErrInvalidWeight      = "E103" // weight must be > 0
	ErrUnknownSymmetry    = "E104" // symmetry not in {X, I, \, L, T, F}
	ErrUnknownNeighbor    = "E105" // neighbor rule references an unknown tile
	ErrInvalidOrientation = "E106" // malformed or out-of-range orientation
	ErrNoNeighborRules    = "E107" // catalog declares no neighbor rules
	ErrInvalidTileName    = "E108" // empty name or name containing whitespace
)

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a parsed catalog against the schema rules.
// Returns all errors found (does not fail-fast).
func Validate(cat *ir.Catalog) []ValidationError {
	var errs []ValidationError

	if len(cat.Tiles) == 0 {
		errs = append(errs, ValidationError{
			Field:   "tiles",
			Message: "at least one tile is required",
			Code:    ErrCatalogEmpty,
		})
	}

	names := make(map[string]bool, len(cat.Tiles))
	for i, tile := range cat.Tiles {
		field := fmt.Sprintf("tiles[%d]", i)

		if strings.TrimSpace(tile.Name) == "" || strings.ContainsAny(tile.Name, " \t\n") {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("tile name %q must be non-empty and contain no whitespace", tile.Name),
				Code:    ErrInvalidTileName,
			})
		}
		if names[tile.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate tile name: %q", tile.Name),
				Code:    ErrDuplicateTile,
			})
		}
		names[tile.Name] = true

		if tile.Weight <= 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".weight",
				Message: fmt.Sprintf("weight of tile %q must be positive, got %v", tile.Name, tile.Weight),
				Code:    ErrInvalidWeight,
			})
		}
		if !ir.ValidSymmetries[normalizeSymmetry(tile.Symmetry)] {
			errs = append(errs, ValidationError{
				Field:   field + ".symmetry",
				Message: fmt.Sprintf("unknown symmetry %q for tile %q", tile.Symmetry, tile.Name),
				Code:    ErrUnknownSymmetry,
			})
		}
	}

	if len(cat.Tiles) > 0 && len(cat.Neighbors) == 0 {
		errs = append(errs, ValidationError{
			Field:   "neighbors",
			Message: "at least one neighbor rule is required",
			Code:    ErrNoNeighborRules,
		})
	}

	for i, rule := range cat.Neighbors {
		errs = append(errs, validateTileRef(rule.Left, fmt.Sprintf("neighbors[%d].left", i), names)...)
		errs = append(errs, validateTileRef(rule.Right, fmt.Sprintf("neighbors[%d].right", i), names)...)
	}

	return errs
}

// validateTileRef checks one side of a neighbor rule.
func validateTileRef(ref, field string, names map[string]bool) []ValidationError {
	name, _, err := ParseTileRef(ref)
	if err != nil {
		return []ValidationError{{
			Field:   field,
			Message: err.Error(),
			Code:    ErrInvalidOrientation,
		}}
	}
	if !names[name] {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("unknown tile %q", name),
			Code:    ErrUnknownNeighbor,
		}}
	}
	return nil
}
