package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/roach88/tilewave/internal/tileset"
)

// RasterOptions controls how unresolved cells are painted.
type RasterOptions struct {
	// BlackBackground paints cells that still allow every tile opaque black
	// instead of the weighted average of all tiles.
	BlackBackground bool
}

// Raster paints the grid at px.Size pixels per cell.
func Raster(snap Snapshot, px *tileset.Pixels, opts RasterOptions) *image.NRGBA {
	size := px.Size
	width, height := snap.Width(), snap.Height()
	img := image.NewNRGBA(image.Rect(0, 0, width*size, height*size))
	observed := snap.Observed()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := x + y*width
			if t := resolved(snap, observed, i); t >= 0 {
				blit(img, x*size, y*size, size, px.Tiles[t])
				continue
			}
			blend(img, x*size, y*size, size, snap, px, i, opts)
		}
	}
	return img
}

func blit(img *image.NRGBA, ox, oy, size int, tile []uint32) {
	for yt := 0; yt < size; yt++ {
		for xt := 0; xt < size; xt++ {
			img.SetNRGBA(ox+xt, oy+yt, tileset.NRGBA(tile[xt+yt*size]))
		}
	}
}

// blend averages the candidate tiles of cell i, each weighted by its share
// of the cell's total weight.
func blend(img *image.NRGBA, ox, oy, size int, snap Snapshot, px *tileset.Pixels, i int, opts RasterOptions) {
	sum := snap.SumOfWeights(i)
	black := sum <= 0 || (opts.BlackBackground && snap.Candidates(i) == snap.Tiles())

	for yt := 0; yt < size; yt++ {
		for xt := 0; xt < size; xt++ {
			var argb uint32 = 0xff000000
			if !black {
				var r, g, b float64
				for t := 0; t < snap.Tiles(); t++ {
					if !snap.Possible(i, t) {
						continue
					}
					v := px.Tiles[t][xt+yt*size]
					share := snap.Weight(t) / sum
					r += float64((v&0xff0000)>>16) * share
					g += float64((v&0xff00)>>8) * share
					b += float64(v&0xff) * share
				}
				argb |= uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			}
			img.SetNRGBA(ox+xt, oy+yt, tileset.NRGBA(argb))
		}
	}
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
