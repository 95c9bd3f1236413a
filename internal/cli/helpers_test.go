package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tilewave/internal/testutil"
)

// basicCUE holds three catalogs: solo, skyground and islands.
var basicCUE = filepath.Join("..", "harness", "testdata", "tilesets", "basic.cue")

// knotsCUE holds the single knots catalog.
var knotsCUE = filepath.Join("..", "harness", "testdata", "tilesets", "knots.cue")

// scenariosDir holds the harness scenarios, with golden/ beside it.
var scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")

// extraCatalogsCUE adds catalogs for the failure paths of run.
const extraCatalogsCUE = `
tileset: lonely: {
	tiles: [{name: "moss"}]
	neighbors: [{left: "moss", right: "moss"}]
}

tileset: broken: {
	tiles: [{name: "a"}, {name: "b"}]
	neighbors: [{left: "a", right: "a"}]
}
`

const genresCUE = `
genre: meadow: themes: ["solo", "skyground", "lonely", "broken"]
genre: sea: themes: ["islands"]

theme: solo: {size: 4, text_output: true}
theme: skyground: {width: 4, height: 3, ground: true, heuristic: "MRV", screenshots: 1, text_output: true}
theme: lonely: {width: 3, height: 2, ground: true, screenshots: 1}
theme: broken: {size: 1, screenshots: 1}
theme: islands: {size: 3, screenshots: 1}
`

// runFixture is a workspace for the run command.
type runFixture struct {
	Genres   string
	Tilesets string
	Out      string
	DB       string
}

// newRunFixture writes catalogs, genres and one bitmap directory per theme.
func newRunFixture(t *testing.T) runFixture {
	t.Helper()
	dir := t.TempDir()

	f := runFixture{
		Genres:   filepath.Join(dir, "genres.cue"),
		Tilesets: filepath.Join(dir, "tilesets"),
		Out:      filepath.Join(dir, "out"),
		DB:       filepath.Join(dir, "runs.db"),
	}
	require.NoError(t, os.MkdirAll(f.Tilesets, 0755))
	writeFile(t, f.Genres, genresCUE)
	writeFile(t, filepath.Join(f.Tilesets, "catalogs.cue"), testutil.CatalogCUE+extraCatalogsCUE)

	green := color.NRGBA{R: 40, G: 160, B: 60, A: 255}
	blue := color.NRGBA{R: 90, G: 150, B: 230, A: 255}
	brown := color.NRGBA{R: 120, G: 80, B: 40, A: 255}

	writePNG(t, filepath.Join(f.Tilesets, "Solo", "grass.png"), 2, green)
	writePNG(t, filepath.Join(f.Tilesets, "Skyground", "sky.png"), 2, blue)
	writePNG(t, filepath.Join(f.Tilesets, "Skyground", "ground.png"), 2, brown)
	writePNG(t, filepath.Join(f.Tilesets, "Lonely", "moss.png"), 2, green)
	writePNG(t, filepath.Join(f.Tilesets, "Broken", "a.png"), 2, green)
	writePNG(t, filepath.Join(f.Tilesets, "Broken", "b.png"), 2, brown)
	writePNG(t, filepath.Join(f.Tilesets, "Islands", "a.png"), 2, blue)
	writePNG(t, filepath.Join(f.Tilesets, "Islands", "b.png"), 2, green)
	return f
}

// args returns the run flags for the fixture.
func (f runFixture) args(extra ...string) []string {
	base := []string{"--genres", f.Genres, "--tilesets", f.Tilesets, "--out", f.Out}
	return append(base, extra...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writePNG(t *testing.T, path string, size int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// decodeResponse unmarshals a CLIResponse whose data has type T.
func decodeResponse[T any](t *testing.T, data []byte) (string, T) {
	t.Helper()
	var resp struct {
		Status string    `json:"status"`
		Data   T         `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &resp), "output: %s", data)
	return resp.Status, resp.Data
}
