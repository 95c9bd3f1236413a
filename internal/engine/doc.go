// Package engine implements the simple-tiled wave function collapse solver.
//
// A Model owns the wave: one boolean per (cell, tile) pair recording whether
// the tile is still possible at the cell, plus per-cell aggregates (candidate
// count, weight sums, Shannon entropy) kept in step with every ban.
//
// Run drives the solver:
//
//  1. Clear resets the wave (and bans the ground constraints when grounded).
//  2. The heuristic picks the next unresolved cell.
//  3. Observe collapses it by a weighted random draw.
//  4. Propagate drains the ban stack until no more tiles lose support.
//
// A cell reaching zero candidates is a contradiction: Run returns false and
// the caller retries with another seed.
//
// DETERMINISM:
// All randomness comes from a *rand.Rand seeded by Run's seed argument and
// threaded through NextUnobservedNode and Observe. Identical (tileset, size,
// options, seed, limit) produce identical observed grids.
//
// CONCURRENCY:
// A Model is single-threaded. Serialize attempts on one Model (each Run
// starts with Clear) or build independent Models for parallel attempts.
package engine
