package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tilewave/internal/ir"
	"github.com/roach88/tilewave/internal/store"
	"github.com/roach88/tilewave/internal/testutil"
)

// recordRun solves a theme with --db and returns the run id.
func recordRun(t *testing.T, f runFixture, genre, theme string, extra ...string) string {
	t.Helper()
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		IDGenerator: testutil.NewFixedRunIDGenerator(theme),
	}
	args := append([]string{genre, theme}, f.args(append([]string{"--db", f.DB}, extra...)...)...)
	out, err := executeRun(t, opts, args...)
	if GetExitCode(err) == ExitCommandError {
		t.Fatalf("run failed: %v", err)
	}
	_, result := decodeResponse[RunResult](t, []byte(out))
	return result.RunID
}

func executeReplay(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, err := executeReplay(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayNonExistentDatabase(t *testing.T) {
	_, err := executeReplay(t, "text", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeReplay(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found in database.")
}

func TestReplayDeterministicRuns(t *testing.T) {
	f := newRunFixture(t)
	recordRun(t, f, "meadow", "solo", "--seed", "11")
	recordRun(t, f, "meadow", "skyground", "--seed", "12")
	recordRun(t, f, "meadow", "lonely", "--seed", "13", "--attempts", "2")

	out, err := executeReplay(t, "text", "--db", f.DB)
	require.NoError(t, err)
	assert.Contains(t, out, "Replayed 3 run(s)")
	assert.Contains(t, out, "✓ solo-00000001 (solo): 2 attempt(s), 2 success(es)")
	assert.Contains(t, out, "✓ lonely-00000001 (lonely): 2 attempt(s), 0 success(es)")
	assert.Contains(t, out, "✓ All attempts replayed identically")
}

func TestReplayDeterministicRunsJSON(t *testing.T) {
	f := newRunFixture(t)
	runID := recordRun(t, f, "sea", "islands", "--seed", "21")

	out, err := executeReplay(t, "json", "--db", f.DB, "--run", runID)
	require.NoError(t, err)

	status, result := decodeResponse[ReplayResult](t, []byte(out))
	assert.Equal(t, "ok", status)
	assert.True(t, result.AllDeterministic)
	require.Len(t, result.Runs, 1)
	assert.Equal(t, runID, result.Runs[0].RunID)
	assert.Equal(t, 1, result.Runs[0].Successes)
	assert.Empty(t, result.Runs[0].Mismatches)
}

func TestReplayUnknownRun(t *testing.T) {
	f := newRunFixture(t)
	recordRun(t, f, "meadow", "solo", "--seed", "1")

	_, err := executeReplay(t, "text", "--db", f.DB, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestReplayDetectsTilesetChange(t *testing.T) {
	f := newRunFixture(t)
	recordRun(t, f, "meadow", "solo", "--seed", "4")

	changed := `
tileset: solo: {
	tiles: [{name: "grass", weight: 2}]
	neighbors: [{left: "grass", right: "grass"}]
}
`
	writeFile(t, filepath.Join(f.Tilesets, "catalogs.cue"), changed)

	out, err := executeReplay(t, "text", "--db", f.DB)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "tileset changed since the run was logged")
	assert.Contains(t, out, "✗ Replay diverged from the attempt log")
}

func TestReplayDetectsDivergedAttempt(t *testing.T) {
	f := newRunFixture(t)
	writeFile(t, filepath.Join(f.Tilesets, "catalogs.cue"), testutil.CatalogCUE)

	loaded, loadErrs := LoadTileset(f.Tilesets, "solo", LoadModeFailFast)
	require.Empty(t, loadErrs)
	hash, err := ir.TilesetHash(loaded.Tileset)
	require.NoError(t, err)

	st, err := store.Open(f.DB)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.WriteRun(ctx, ir.Run{
		ID: "forged", Genre: "meadow", Theme: "solo", TilesetFile: f.Tilesets, TilesetHash: hash,
		Width: 2, Height: 2, Heuristic: "Entropy", StepLimit: -1,
	}))
	require.NoError(t, st.WriteAttempt(ctx, ir.Attempt{
		RunID: "forged", Attempt: 1, Seed: 1, Success: true, Steps: 1,
		Grid: []int{0, 0, 0, 0}, GridHash: "not-the-hash",
	}))
	require.NoError(t, st.Close())

	out, err := executeReplay(t, "json", "--db", f.DB)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	status, result := decodeResponse[ReplayResult](t, []byte(out))
	assert.Equal(t, "error", status)
	assert.False(t, result.AllDeterministic)
	require.Len(t, result.Runs, 1)
	require.Len(t, result.Runs[0].Mismatches, 1)
	mismatch := result.Runs[0].Mismatches[0]
	assert.Equal(t, int64(1), mismatch.Seed)
	assert.Equal(t, "success=true hash=not-the-hash", mismatch.Expected)
	assert.Equal(t, "success=true hash="+ir.MustGridHash(2, 2, []int{0, 0, 0, 0}), mismatch.Actual)
}

func TestReplayHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	help := buf.String()
	assert.Contains(t, help, "--db")
	assert.Contains(t, help, "--run")
	assert.Contains(t, help, "Exit codes")
}
