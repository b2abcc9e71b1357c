package pixelart

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelsplace/pixelart/matcher"
	"github.com/voxelsplace/pixelart/palette"
)

// IndexMatrix holds one palette index per output cell, rows top to bottom.
type IndexMatrix [][]uint8

// Width is the number of columns.
func (m IndexMatrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Height is the number of rows.
func (m IndexMatrix) Height() int { return len(m) }

// Digest fingerprints the matrix shape and content.
func (m IndexMatrix) Digest() uint64 {
	h := xxhash.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(m.Width()))
	binary.LittleEndian.PutUint32(dims[4:], uint32(m.Height()))
	h.Write(dims[:])
	for _, row := range m {
		h.Write(row)
	}
	return h.Sum64()
}

// Quantize maps every pixel of img to the nearest color of p. Fully
// transparent pixels become palette.EmptyIndex whatever their color;
// any other alpha counts as opaque.
func Quantize(img *image.NRGBA, p *palette.Palette) (IndexMatrix, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptySource
	}
	if p.Len() > palette.MaxEntries {
		return nil, fmt.Errorf("palette has %d entries, at most %d fit an index", p.Len(), palette.MaxEntries)
	}
	m := matcher.New(p.Points())

	b := img.Bounds()
	out := make(IndexMatrix, b.Dy())
	for y := range out {
		row := make([]uint8, b.Dx())
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := range row {
			px := img.Pix[i : i+4 : i+4]
			i += 4
			if px[3] == 0 {
				row[x] = palette.EmptyIndex
				continue
			}
			row[x] = uint8(m.Nearest(px[0], px[1], px[2]))
		}
		out[y] = row
	}
	return out, nil
}
