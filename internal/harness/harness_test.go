package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_SoloGrid(t *testing.T) {
	result, err := Run(loadTestScenario(t, "solo_grid"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Outcomes, 3)
	for _, o := range result.Outcomes {
		assert.True(t, o.Success)
		assert.Equal(t, make([]int, 25), o.Grid)
		assert.NotEmpty(t, o.GridHash)
	}
	assert.Equal(t, result.Outcomes[0].GridHash, result.Outcomes[2].GridHash)
}

func TestRun_GroundedHorizon(t *testing.T) {
	result, err := Run(loadTestScenario(t, "grounded_horizon"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "sky 0, sky 0, sky 0, sky 0\nsky 0, sky 0, sky 0, sky 0\nground 0, ground 0, ground 0, ground 0\n", result.Text)
}

func TestRun_ExpectedContradiction(t *testing.T) {
	result, err := Run(loadTestScenario(t, "grounded_solo"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Outcomes, 1)
	assert.False(t, result.Outcomes[0].Success)
	assert.Empty(t, result.Outcomes[0].Grid)
	assert.Empty(t, result.Text)
	assert.Nil(t, result.FirstSuccess())
}

func TestRun_Knots(t *testing.T) {
	result, err := Run(loadTestScenario(t, "knots_periodic"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Outcomes, 5)
}

func TestRun_ExpectMismatch(t *testing.T) {
	s := loadTestScenario(t, "grounded_solo")
	s.Expect = ExpectSuccess

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "seed 1: expected success, got contradiction")
}

func TestRun_FailedAssertions(t *testing.T) {
	s := loadTestScenario(t, "grounded_horizon")
	s.Assertions = []Assertion{
		{Type: AssertTileOnlyInRow, Tile: "ground 0", Row: 0},
		{Type: AssertTileCount, Tile: "sky 0", Count: 3},
		{Type: AssertTileCount, Tile: "lava 0", Count: 1},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], `Expected: "ground 0" only in row 0`)
	assert.Contains(t, result.Errors[0], "Actual: found in row 2")
	assert.Contains(t, result.Errors[1], "Actual: 8 cells")
	assert.Contains(t, result.Errors[2], `unknown tile "lava 0"`)
}

func TestRun_StepLimitLeavesCellsOpen(t *testing.T) {
	s := loadTestScenario(t, "knots_periodic")
	limit := 2
	s.Limit = &limit
	s.Seeds = []int64{1}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: all_observed")
	assert.True(t, strings.Contains(result.Text, "?"))
}

func TestRun_BadTileset(t *testing.T) {
	s := loadTestScenario(t, "solo_grid")
	s.Catalog = "castle"

	_, err := Run(s)
	assert.ErrorContains(t, err, `tileset "castle" not declared`)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTileCount,
		Seed:     4,
		Expected: "2 cells",
		Actual:   "3 cells",
		Grid:     "a 0, a 0\n",
	}
	assert.Equal(t, "Assertion failed: tile_count (seed 4)\n  Expected: 2 cells\n  Actual: 3 cells\n\nGrid:\na 0, a 0\n", err.Error())
}

func TestGridText(t *testing.T) {
	names := []string{"a 0", "b 0"}
	assert.Equal(t, "a 0, ?\nb 0, a 0\n", gridText([]int{0, -1, 1, 0}, 2, names))
}
