package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyedScreen records the first cell's background on Show and then presses
// a key so Preview returns.
type keyedScreen struct {
	tcell.SimulationScreen
	shown bool
	bg    tcell.Color
}

func (s *keyedScreen) Show() {
	s.SimulationScreen.Show()
	if !s.shown {
		_, _, style, _ := s.GetContent(0, 0)
		_, s.bg, _ = style.Decompose()
		s.shown = true
	}
	go s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
}

func executePreview(t *testing.T, screen *keyedScreen, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	opts := &PreviewOptions{
		RootOptions: &RootOptions{Format: "text"},
		NewScreen: func() (tcell.Screen, error) {
			return screen, nil
		},
	}
	cmd := newPreviewCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	var err error
	done := make(chan struct{})
	go func() {
		err = cmd.Execute()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not return")
	}
	return buf.String(), err
}

func TestPreviewDrawsSolvedGrid(t *testing.T) {
	f := newRunFixture(t)
	screen := &keyedScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}

	_, err := executePreview(t, screen, filepath.Join(f.Tilesets, "catalogs.cue"),
		"--tileset", "solo", "--bitmaps", filepath.Join(f.Tilesets, "Solo"),
		"--width", "3", "--height", "2", "--seed", "1")
	require.NoError(t, err)
	require.True(t, screen.shown)
	assert.Equal(t, tcell.NewRGBColor(40, 160, 60), screen.bg)
}

func TestPreviewMissingBitmaps(t *testing.T) {
	f := newRunFixture(t)
	screen := &keyedScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}

	out, err := executePreview(t, screen, filepath.Join(f.Tilesets, "catalogs.cue"),
		"--tileset", "solo", "--bitmaps", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeBitmaps)
	assert.False(t, screen.shown, "nothing is drawn on error")
}

func TestPreviewRejectsBadSize(t *testing.T) {
	f := newRunFixture(t)
	screen := &keyedScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}

	_, err := executePreview(t, screen, filepath.Join(f.Tilesets, "catalogs.cue"),
		"--tileset", "solo", "--bitmaps", filepath.Join(f.Tilesets, "Solo"), "--width", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "grid size must be positive")
}
