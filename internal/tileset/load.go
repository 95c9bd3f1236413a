package tileset

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/roach88/tilewave/internal/ir"
)

// BitmapError reports an unreadable or malformed tile bitmap.
type BitmapError struct {
	Path    string
	Message string
	Err     error
}

func (e *BitmapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *BitmapError) Unwrap() error {
	return e.Err
}

// Load reads the bitmaps for every variant of ts from dir.
//
// In unique mode each variant has its own file "<base> <k>.png". Otherwise
// "<base>.png" is variant 0; variants 1-3 rotate the previous variant and
// variants 4-7 reflect variant k-4. Every bitmap must be square and share
// the size of the first one loaded.
func Load(dir string, ts *ir.Tileset, unique bool) (*Pixels, error) {
	px := &Pixels{Tiles: make([][]uint32, ts.Count())}

	for t, v := range ts.Variants {
		if !unique && v.Orientation > 0 {
			if v.Orientation <= 3 {
				px.Tiles[t] = Rotate(px.Tiles[t-1], px.Size)
			} else {
				px.Tiles[t] = Reflect(px.Tiles[t-4], px.Size)
			}
			continue
		}

		name := v.Base + ".png"
		if unique {
			name = fmt.Sprintf("%s %d.png", v.Base, v.Orientation)
		}
		bitmap, err := px.read(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		px.Tiles[t] = bitmap
	}
	return px, nil
}

// read decodes one PNG and checks its shape against the tiles loaded so far.
func (p *Pixels) read(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &BitmapError{Path: path, Message: "cannot open bitmap", Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &BitmapError{Path: path, Message: "cannot decode PNG", Err: err}
	}

	w, h, bitmap := fromImage(img)
	if w == 0 {
		return nil, &BitmapError{Path: path, Message: "bitmap is empty"}
	}
	if w != h {
		return nil, &BitmapError{Path: path, Message: fmt.Sprintf("bitmap must be square, got %dx%d", w, h)}
	}
	if p.Size == 0 {
		p.Size = w
	} else if w != p.Size {
		return nil, &BitmapError{Path: path, Message: fmt.Sprintf("bitmap is %dpx, other tiles are %dpx", w, p.Size)}
	}
	return bitmap, nil
}
