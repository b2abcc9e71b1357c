package pixelart

import (
	"fmt"
	"image"

	"github.com/voxelsplace/pixelart/palette"
)

// Render draws the preview of m: empty cells are fully transparent, every
// other cell is its palette color at full opacity.
func Render(m IndexMatrix, p *palette.Palette) (*image.NRGBA, error) {
	w, h := m.Width(), m.Height()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y, row := range m {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, y, len(row), w)
		}
		for x, idx := range row {
			if p.IsEmpty(int(idx)) {
				continue
			}
			c, ok := p.Color(int(idx))
			if !ok {
				return nil, fmt.Errorf("%w: index %d at (%d,%d) outside %s palette", ErrPaletteIndexUnmapped, idx, x, y, p.Kind())
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 255
		}
	}
	return img, nil
}
