package pixelart

import (
	"fmt"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/schem"
)

// Serialize lays m out as a one block high slab: cell (row r, column c)
// becomes a placement at x=c, y=0, z=r. Empty cells are left as air. An
// index without a block fails the whole call.
func Serialize(m IndexMatrix, p *palette.Palette) (*schem.Structure, error) {
	w, h := m.Width(), m.Height()
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	s, err := schem.New(w, 1, h)
	if err != nil {
		return nil, err
	}
	for r, row := range m {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, r, len(row), w)
		}
		for c, idx := range row {
			if p.IsEmpty(int(idx)) {
				continue
			}
			block, ok := p.Block(int(idx))
			if !ok {
				return nil, fmt.Errorf("%w: index %d at row %d column %d", ErrPaletteIndexUnmapped, idx, r, c)
			}
			if err := s.Place(c, 0, r, block); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// WriteStructure writes s to path as a schematic targeting v and returns
// the absolute path. Nothing is left at path on failure.
func WriteStructure(s *schem.Structure, path string, v schem.Version) (string, error) {
	abs, err := schem.WriteFile(s, path, v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerializationIO, err)
	}
	return abs, nil
}
