package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tilewave/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Seed     int64  // Seed whose grid failed, if any
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Grid     string // Text rendering of the offending grid
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (seed %d)\n", e.Type, e.Seed)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Grid != "" {
		fmt.Fprintf(&buf, "\nGrid:\n%s", e.Grid)
	}
	return buf.String()
}

// gridText renders an observed grid the way render.Text does.
func gridText(grid []int, width int, names []string) string {
	var buf strings.Builder
	for i, t := range grid {
		if i%width > 0 {
			buf.WriteString(", ")
		}
		if t < 0 {
			buf.WriteString("?")
		} else {
			buf.WriteString(names[t])
		}
		if i%width == width-1 {
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// assertAllObserved checks that successful grids have no unresolved cells.
func assertAllObserved(result *Result) error {
	for _, o := range result.Outcomes {
		if !o.Success {
			continue
		}
		for i, t := range o.Grid {
			if t < 0 {
				return &AssertionError{
					Type:     AssertAllObserved,
					Seed:     o.Seed,
					Expected: "every cell resolved",
					Actual:   fmt.Sprintf("cell %d unresolved", i),
					Grid:     gridText(o.Grid, result.width, result.names),
				}
			}
		}
	}
	return nil
}

// assertTileOnlyInRow checks that a tile never leaves its row.
func assertTileOnlyInRow(ts *ir.Tileset, height int, a Assertion, result *Result) error {
	tile := ts.VariantIndex(a.Tile)
	if tile < 0 {
		return fmt.Errorf("%s: unknown tile %q", a.Type, a.Tile)
	}
	row := a.Row
	if row < 0 {
		row += height
	}

	for _, o := range result.Outcomes {
		if !o.Success {
			continue
		}
		for i, t := range o.Grid {
			if t == tile && i/result.width != row {
				return &AssertionError{
					Type:     AssertTileOnlyInRow,
					Seed:     o.Seed,
					Expected: fmt.Sprintf("%q only in row %d", a.Tile, row),
					Actual:   fmt.Sprintf("found in row %d", i/result.width),
					Grid:     gridText(o.Grid, result.width, result.names),
				}
			}
		}
	}
	return nil
}

// assertTileCount checks how many cells of the first success hold a tile.
func assertTileCount(ts *ir.Tileset, a Assertion, result *Result) error {
	tile := ts.VariantIndex(a.Tile)
	if tile < 0 {
		return fmt.Errorf("%s: unknown tile %q", a.Type, a.Tile)
	}
	first := result.FirstSuccess()
	if first == nil {
		return &AssertionError{
			Type:     AssertTileCount,
			Expected: fmt.Sprintf("%d cells of %q", a.Count, a.Tile),
			Actual:   "no successful seed",
		}
	}

	count := 0
	for _, t := range first.Grid {
		if t == tile {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTileCount,
			Seed:     first.Seed,
			Expected: fmt.Sprintf("%d cells of %q", a.Count, a.Tile),
			Actual:   fmt.Sprintf("%d cells", count),
			Grid:     gridText(first.Grid, result.width, result.names),
		}
	}
	return nil
}

// assertDeterministic replays the logged attempts on a fresh Model.
func (h *Harness) assertDeterministic(ctx context.Context) error {
	attempts, err := h.store.ReadAttempts(ctx, h.runID)
	if err != nil {
		return err
	}

	model := h.newModel()
	for _, a := range attempts {
		replayed := solveSeed(model, a.Seed, h.limit())
		if replayed.Success != a.Success || replayed.GridHash != a.GridHash {
			return &AssertionError{
				Type:     AssertDeterministic,
				Seed:     a.Seed,
				Expected: fmt.Sprintf("success=%v hash=%s", a.Success, a.GridHash),
				Actual:   fmt.Sprintf("success=%v hash=%s", replayed.Success, replayed.GridHash),
			}
		}
	}
	return nil
}
