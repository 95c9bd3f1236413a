// Package harness runs solver scenarios described in YAML.
//
// A scenario names a tileset file, a grid configuration and a list of
// seeds. Run solves every seed on one engine.Model, records each attempt
// in a fresh in-memory attempt log, checks the expected outcome and
// evaluates the scenario's assertions:
//
//   - all_observed: every cell of every successful grid is resolved
//   - tile_only_in_row: a tile appears only in the given row (negative rows
//     count from the bottom)
//   - tile_count: a tile occupies exactly count cells of the first success
//   - deterministic: replaying every logged attempt on a fresh Model gives
//     the same outcome and grid hash
//
// RunWithGolden additionally compares the text rendering of the first
// successful grid against testdata/golden/<name>.golden.
package harness
