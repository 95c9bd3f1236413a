package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a solver scenario.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Tileset is the path to the catalog .cue file.
	// Relative paths are resolved against the scenario file location.
	Tileset string `yaml:"tileset"`

	// Catalog picks one tileset.<name> block; optional when the file
	// declares exactly one.
	Catalog string `yaml:"catalog,omitempty"`

	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Periodic  bool   `yaml:"periodic,omitempty"`
	Ground    bool   `yaml:"ground,omitempty"`
	Heuristic string `yaml:"heuristic,omitempty"`

	// Limit is the per-seed step limit; nil means unbounded.
	Limit *int `yaml:"limit,omitempty"`

	// Seeds are solved in order on a single Model.
	Seeds []int64 `yaml:"seeds"`

	// Expect is the required outcome of every seed: success,
	// contradiction or any (default).
	Expect string `yaml:"expect,omitempty"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expected outcomes.
const (
	ExpectSuccess       = "success"
	ExpectContradiction = "contradiction"
	ExpectAny           = "any"
)

// Assertion checks a property of the solved grids.
type Assertion struct {
	// Type is one of all_observed, tile_only_in_row, tile_count,
	// deterministic.
	Type string `yaml:"type"`

	// Tile is a variant name such as "ground 0" (tile_only_in_row,
	// tile_count).
	Tile string `yaml:"tile,omitempty"`

	// Row is the only row the tile may occupy (tile_only_in_row).
	// Negative values count from the bottom: -1 is the last row.
	Row int `yaml:"row,omitempty"`

	// Count is the exact number of cells (tile_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertAllObserved   = "all_observed"
	AssertTileOnlyInRow = "tile_only_in_row"
	AssertTileCount     = "tile_count"
	AssertDeterministic = "deterministic"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// The tileset path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Tileset != "" && !filepath.IsAbs(scenario.Tileset) {
		scenario.Tileset = filepath.Join(filepath.Dir(path), scenario.Tileset)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Tileset == "" {
		return fmt.Errorf("tileset is required")
	}
	if _, err := os.Stat(s.Tileset); os.IsNotExist(err) {
		return fmt.Errorf("tileset file not found: %s", s.Tileset)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", s.Width, s.Height)
	}
	if len(s.Seeds) == 0 {
		return fmt.Errorf("seeds list is required and must be non-empty")
	}

	switch s.Expect {
	case "", ExpectSuccess, ExpectContradiction, ExpectAny:
	default:
		return fmt.Errorf("expect must be %s, %s or %s, got %q", ExpectSuccess, ExpectContradiction, ExpectAny, s.Expect)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAllObserved, AssertDeterministic:
	case AssertTileOnlyInRow:
		if a.Tile == "" {
			return fmt.Errorf("assertions[%d]: tile is required for tile_only_in_row", index)
		}
	case AssertTileCount:
		if a.Tile == "" {
			return fmt.Errorf("assertions[%d]: tile is required for tile_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
