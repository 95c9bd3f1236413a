package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tilewave/internal/ir"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with minimal required fields.
func createTestRun(id string) ir.Run {
	return ir.Run{
		ID:          id,
		Genre:       "Platformer",
		Theme:       "Summer",
		TilesetFile: "tilesets/summer.cue",
		TilesetHash: "test-hash",
		Width:       4,
		Height:      3,
		Periodic:    true,
		Ground:      false,
		Heuristic:   "Entropy",
		StepLimit:   -1,
	}
}
