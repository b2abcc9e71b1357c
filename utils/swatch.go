package utils

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	"github.com/voxelsplace/pixelart/internal/atomicfile"
	"github.com/voxelsplace/pixelart/palette"
)

// swatchColumns is how many tiles a swatch row holds.
const swatchColumns = 16

// PaletteSwatch draws every color of p as a tileSize square, row by row.
// Sentinel slots stay transparent.
func PaletteSwatch(p *palette.Palette, tileSize int) (*image.NRGBA, error) {
	if p.Len() == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 16
	}
	cols := min(p.Len(), swatchColumns)
	rows := (p.Len() + cols - 1) / cols
	img := image.NewNRGBA(image.Rect(0, 0, cols*tileSize, rows*tileSize))

	for i := 0; i < p.Len(); i++ {
		c, ok := p.Color(i)
		if !ok {
			continue
		}
		x0 := (i % cols) * tileSize
		y0 := (i / cols) * tileSize
		for y := y0; y < y0+tileSize; y++ {
			for x := x0; x < x0+tileSize; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}
	return img, nil
}

// RunPaletteSwatch writes the swatch of the kind palette of t as PNG.
func RunPaletteSwatch(outPath string, t *palette.Table, kind palette.Kind, tileSize int) (string, error) {
	img, err := PaletteSwatch(t.Palette(kind), tileSize)
	if err != nil {
		return "", err
	}
	return atomicfile.Write(outPath, func(w io.Writer) error {
		return imaging.Encode(w, img, imaging.PNG)
	})
}
