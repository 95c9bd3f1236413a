package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/roach88/tilewave/internal/tileset"
)

// DrawTerminal paints one terminal cell per grid cell, using the mean
// colour of the tile (or the weighted mean of the candidates) as the
// background. Cells beyond the screen size are clipped. Call Show to
// flush.
func DrawTerminal(screen tcell.Screen, snap Snapshot, px *tileset.Pixels) {
	cols, rows := screen.Size()
	observed := snap.Observed()
	width := snap.Width()

	means := make([][3]float64, len(px.Tiles))
	for t := range means {
		c := px.Mean(t)
		means[t] = [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	}

	for y := 0; y < snap.Height() && y < rows; y++ {
		for x := 0; x < width && x < cols; x++ {
			i := x + y*width
			var rgb [3]float64
			if t := resolved(snap, observed, i); t >= 0 {
				rgb = means[t]
			} else if sum := snap.SumOfWeights(i); sum > 0 {
				for t := 0; t < snap.Tiles(); t++ {
					if snap.Possible(i, t) {
						share := snap.Weight(t) / sum
						for c := range rgb {
							rgb[c] += means[t][c] * share
						}
					}
				}
			}
			bg := tcell.NewRGBColor(int32(rgb[0]), int32(rgb[1]), int32(rgb[2]))
			screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
}

// Preview draws the grid, shows it, and blocks until a key is pressed or
// the screen is finalized.
func Preview(screen tcell.Screen, snap Snapshot, px *tileset.Pixels) {
	screen.Clear()
	DrawTerminal(screen, snap, px)
	screen.Show()

	for {
		switch screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Clear()
			DrawTerminal(screen, snap, px)
			screen.Sync()
		case *tcell.EventKey:
			return
		}
	}
}
