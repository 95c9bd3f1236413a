package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tilewave/internal/store"
	"github.com/roach88/tilewave/internal/testutil"
)

// executeRun runs the run command with the given options and arguments.
func executeRun(t *testing.T, opts *RunOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRunCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunMissingRequiredFlags(t *testing.T) {
	_, err := executeRun(t, &RunOptions{RootOptions: &RootOptions{Format: "text"}}, "meadow", "solo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRunSolvesScreenshots(t *testing.T) {
	f := newRunFixture(t)
	opts := &RunOptions{RootOptions: &RootOptions{Format: "json"}}

	out, err := executeRun(t, opts, append([]string{"meadow", "solo"}, f.args("--seed", "1")...)...)
	require.NoError(t, err)

	status, result := decodeResponse[RunResult](t, []byte(out))
	assert.Equal(t, "ok", status)
	assert.Equal(t, "meadow", result.Genre)
	assert.Equal(t, "solo", result.Theme)
	assert.Empty(t, result.RunID, "no run id without --db")
	require.Len(t, result.Outputs, 2, "solo theme takes the default two screenshots")
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 0, result.Contradictions)

	for _, o := range result.Outputs {
		assert.Equal(t, filepath.Join(f.Out, "Solo"+strconv.FormatInt(o.Seed, 10)+".png"), o.Image)
		assert.FileExists(t, o.Image)
		require.NotEmpty(t, o.Text)

		data, err := os.ReadFile(o.Text)
		require.NoError(t, err)
		row := "grass 0, grass 0, grass 0, grass 0\n"
		assert.Equal(t, strings.Repeat(row, 4), string(data))
	}
}

func TestRunSameSeedSameOutputs(t *testing.T) {
	f := newRunFixture(t)

	run := func() RunResult {
		opts := &RunOptions{RootOptions: &RootOptions{Format: "json"}}
		out, err := executeRun(t, opts, append([]string{"meadow", "skyground"}, f.args("--seed", "42")...)...)
		require.NoError(t, err)
		_, result := decodeResponse[RunResult](t, []byte(out))
		return result
	}

	first, second := run(), run()
	require.Len(t, first.Outputs, 1)
	require.Len(t, second.Outputs, 1)
	assert.Equal(t, first.Outputs[0].Seed, second.Outputs[0].Seed)

	data, err := os.ReadFile(first.Outputs[0].Text)
	require.NoError(t, err)
	sky := "sky 0, sky 0, sky 0, sky 0\n"
	ground := "ground 0, ground 0, ground 0, ground 0\n"
	assert.Equal(t, sky+sky+ground, string(data))
}

func TestRunNormalizesCase(t *testing.T) {
	f := newRunFixture(t)
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRun(t, opts, append([]string{"MEADOW", "Solo"}, f.args("--seed", "3")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+filepath.Join(f.Out, "Solo"))
	assert.Contains(t, out, "2/2 screenshot(s)")
}

func TestRunRejectsBadArguments(t *testing.T) {
	f := newRunFixture(t)

	tests := []struct {
		name    string
		genre   string
		theme   string
		message string
	}{
		{"special characters in theme", "meadow", "so$lo", "contains special characters."},
		{"special characters in genre", "mea-dow", "solo", "contains special characters."},
		{"unknown genre", "racing", "solo", "String 'racing' is not in the list of genres."},
		{"theme outside genre", "meadow", "islands", "String 'islands' is not the part of the mentioned genre."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}
			_, err := executeRun(t, opts, append([]string{tt.genre, tt.theme}, f.args()...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestRunAllAttemptsContradict(t *testing.T) {
	f := newRunFixture(t)
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRun(t, opts, append([]string{"meadow", "lonely"}, f.args("--attempts", "3", "--seed", "1")...)...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "no screenshot solved in 3 attempt(s)")
	assert.Equal(t, 3, strings.Count(out, "✗ contradiction"))
	assert.Contains(t, out, "0/1 screenshot(s) in 3 attempt(s), 3 contradiction(s)")
}

func TestRunBlocksOnDiagnostics(t *testing.T) {
	f := newRunFixture(t)
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRun(t, opts, append([]string{"meadow", "broken"}, f.args()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--force")
	assert.Contains(t, out, "E201")
	assert.NoDirExists(t, f.Out, "nothing is written when blocked")
}

func TestRunForceIgnoresDiagnostics(t *testing.T) {
	f := newRunFixture(t)
	opts := &RunOptions{RootOptions: &RootOptions{Format: "json"}}

	out, err := executeRun(t, opts, append([]string{"meadow", "broken"}, f.args("--force", "--seed", "5")...)...)
	require.NoError(t, err)

	_, result := decodeResponse[RunResult](t, []byte(out))
	require.Len(t, result.Outputs, 1)
	assert.FileExists(t, result.Outputs[0].Image)
}

func TestRunMissingBitmaps(t *testing.T) {
	f := newRunFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(f.Tilesets, "Solo")))
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRun(t, opts, append([]string{"meadow", "solo"}, f.args()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeBitmaps)
}

func TestRunBitmapsFlag(t *testing.T) {
	f := newRunFixture(t)
	bitmaps := t.TempDir()
	require.NoError(t, os.Rename(filepath.Join(f.Tilesets, "Islands"), filepath.Join(bitmaps, "Islands")))
	opts := &RunOptions{RootOptions: &RootOptions{Format: "json"}}

	out, err := executeRun(t, opts, append([]string{"sea", "islands"}, f.args("--bitmaps", bitmaps, "--seed", "9")...)...)
	require.NoError(t, err)
	_, result := decodeResponse[RunResult](t, []byte(out))
	require.Len(t, result.Outputs, 1)
	assert.Empty(t, result.Outputs[0].Text, "islands theme has no text output")
}

func TestRunUnknownTheme(t *testing.T) {
	f := newRunFixture(t)
	writeFile(t, f.Genres, genresCUE+"\ngenre: desert: themes: [\"dunes\"]\n")
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRun(t, opts, append([]string{"desert", "dunes"}, f.args()...)...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNoCatalog)
	assert.Contains(t, out, `tileset "dunes" not declared`)
}

func TestRunRecordsAttempts(t *testing.T) {
	f := newRunFixture(t)
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		IDGenerator: testutil.NewFixedRunIDGenerator("cli"),
	}

	out, err := executeRun(t, opts, append([]string{"meadow", "solo"}, f.args("--db", f.DB, "--seed", "7")...)...)
	require.NoError(t, err)
	_, result := decodeResponse[RunResult](t, []byte(out))
	assert.Equal(t, "cli-00000001", result.RunID)

	st, err := store.Open(f.DB)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.ReadRun(ctx, "cli-00000001")
	require.NoError(t, err)
	assert.Equal(t, "meadow", run.Genre)
	assert.Equal(t, "solo", run.Theme)
	assert.Equal(t, f.Tilesets, run.TilesetFile)
	assert.Equal(t, 4, run.Width)
	assert.Equal(t, "Entropy", run.Heuristic)
	assert.Equal(t, -1, run.StepLimit)

	attempts, err := st.ReadAttempts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	for i, a := range attempts {
		assert.Equal(t, i+1, a.Attempt)
		assert.Equal(t, result.Outputs[i].Seed, a.Seed)
		assert.True(t, a.Success)
		assert.Len(t, a.Grid, 16)
		assert.NotEmpty(t, a.GridHash)
	}
}

func TestCheckGenreTheme(t *testing.T) {
	f := newRunFixture(t)

	genre, theme, err := checkGenreTheme(f.Genres, "Meadow", "SKYGROUND")
	require.NoError(t, err)
	assert.Equal(t, "meadow", genre)
	assert.Equal(t, "skyground", theme.Name)
	assert.Equal(t, 4, theme.Width)
	assert.Equal(t, 3, theme.Height)
	assert.True(t, theme.Ground)
	assert.Equal(t, "MRV", theme.Heuristic)
}

func TestCheckGenreThemeMissingConfig(t *testing.T) {
	_, _, err := checkGenreTheme(filepath.Join(t.TempDir(), "none.cue"), "meadow", "solo")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestBitmapRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tiles.cue")
	writeFile(t, file, testutil.CatalogCUE)

	assert.Equal(t, dir, bitmapRoot(&RunOptions{Tilesets: dir}))
	assert.Equal(t, dir, bitmapRoot(&RunOptions{Tilesets: file}))
	assert.Equal(t, "elsewhere", bitmapRoot(&RunOptions{Tilesets: file, Bitmaps: "elsewhere"}))
}

func TestRunHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	help := buf.String()
	assert.Contains(t, help, "run <genre> <theme>")
	assert.Contains(t, help, "--genres")
	assert.Contains(t, help, "--attempts")
	assert.Contains(t, help, "--force")
}
