package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tilewave/internal/ir"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, genre, theme, tileset_file, tileset_hash, width, height, periodic, ground, heuristic, step_limit`

// ListRuns returns every run ordered by id (creation order for UUIDv7 ids).
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) ListRuns(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run by id.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ReadAttempts returns the attempts of a run ordered by attempt ASC.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ReadAttempts(ctx context.Context, runID string) ([]ir.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, attempt, seed, success, steps, grid, grid_hash
		FROM attempts
		WHERE run_id = ?
		ORDER BY attempt ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []ir.Attempt{}
	for rows.Next() {
		var (
			a        ir.Attempt
			success  int
			gridJSON string
		)
		if err := rows.Scan(&a.RunID, &a.Attempt, &a.Seed, &success, &a.Steps, &gridJSON, &a.GridHash); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Success = success != 0
		if a.Grid, err = unmarshalGrid(gridJSON); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ir.Run, error) {
	var (
		run              ir.Run
		periodic, ground int
	)
	err := row.Scan(
		&run.ID,
		&run.Genre,
		&run.Theme,
		&run.TilesetFile,
		&run.TilesetHash,
		&run.Width,
		&run.Height,
		&periodic,
		&ground,
		&run.Heuristic,
		&run.StepLimit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Run{}, err
	}
	if err != nil {
		return ir.Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Periodic = periodic != 0
	run.Ground = ground != 0
	return run, nil
}
