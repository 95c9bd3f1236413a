package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/tilewave/internal/ir"
)

// marshalGrid converts an observed grid to canonical JSON TEXT.
func marshalGrid(grid []int) (string, error) {
	if grid == nil {
		grid = []int{}
	}
	data, err := ir.MarshalCanonical(grid)
	if err != nil {
		return "", fmt.Errorf("marshal grid: %w", err)
	}
	return string(data), nil
}

// unmarshalGrid parses a stored grid. Empty input yields an empty grid.
func unmarshalGrid(data string) ([]int, error) {
	grid := []int{}
	if data == "" {
		return grid, nil
	}
	if err := json.Unmarshal([]byte(data), &grid); err != nil {
		return nil, fmt.Errorf("unmarshal grid: %w", err)
	}
	return grid, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
