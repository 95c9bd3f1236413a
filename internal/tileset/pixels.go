package tileset

import (
	"image"
	"image/color"
)

// Pixels holds one square ARGB bitmap per tileset variant.
type Pixels struct {
	Size  int        // edge length in pixels
	Tiles [][]uint32 // Tiles[t][x+y*Size]
}

// ARGB packs c as 0xAARRGGBB (non-premultiplied).
func ARGB(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// NRGBA unpacks an ARGB word.
func NRGBA(argb uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: uint8(argb >> 24),
	}
}

// fromImage flattens img row-major into ARGB words.
func fromImage(img image.Image) (w, h int, px []uint32) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	px = make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px[x+y*w] = ARGB(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return w, h, px
}

// Rotate turns a size x size bitmap a quarter turn.
func Rotate(px []uint32, size int) []uint32 {
	out := make([]uint32, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out[x+y*size] = px[size-1-y+x*size]
		}
	}
	return out
}

// Reflect mirrors a size x size bitmap horizontally.
func Reflect(px []uint32, size int) []uint32 {
	out := make([]uint32, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out[x+y*size] = px[size-1-x+y*size]
		}
	}
	return out
}

// Mean returns the average colour of tile t, used where a whole tile has
// to fit into one terminal cell.
func (p *Pixels) Mean(t int) color.NRGBA {
	var r, g, b, a uint64
	for _, v := range p.Tiles[t] {
		c := NRGBA(v)
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
		a += uint64(c.A)
	}
	n := uint64(len(p.Tiles[t]))
	if n == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}
