package store

import (
	"context"
	"fmt"

	"github.com/roach88/tilewave/internal/ir"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, genre, theme, tileset_file, tileset_hash, width, height, periodic, ground, heuristic, step_limit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Genre,
		run.Theme,
		run.TilesetFile,
		run.TilesetHash,
		run.Width,
		run.Height,
		boolToInt(run.Periodic),
		boolToInt(run.Ground),
		run.Heuristic,
		run.StepLimit,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteAttempt appends an attempt to its run.
// Writing the same (run_id, attempt) twice is a no-op.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteAttempt(ctx context.Context, a ir.Attempt) error {
	gridJSON, err := marshalGrid(a.Grid)
	if err != nil {
		return fmt.Errorf("write attempt: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attempts
		(run_id, attempt, seed, success, steps, grid, grid_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		a.RunID,
		a.Attempt,
		a.Seed,
		boolToInt(a.Success),
		a.Steps,
		gridJSON,
		a.GridHash,
	)
	if err != nil {
		return fmt.Errorf("write attempt: %w", err)
	}
	return nil
}
