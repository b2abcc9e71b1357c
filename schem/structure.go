// Package schem reads and writes block structures as Sponge schematic files.
package schem

import (
	"fmt"
	"strings"
)

// AirBlock is the block that fills every position without a placement.
const AirBlock = "minecraft:air"

// MaxExtent is the largest size along any axis; extents are stored as
// signed 16-bit values.
const MaxExtent = 32767

// Placement puts one block at a position inside the structure.
type Placement struct {
	X, Y, Z int
	Block   string
}

// Structure is a sparse set of block placements inside a Width×Height×Length
// box (x, y, z). Positions without a placement are air.
type Structure struct {
	Width, Height, Length int
	Placements            []Placement
}

// New returns an empty structure with the given extents.
func New(width, height, length int) (*Structure, error) {
	if width < 1 || height < 1 || length < 1 {
		return nil, fmt.Errorf("schem: extents must be positive, got %dx%dx%d", width, height, length)
	}
	if width > MaxExtent || height > MaxExtent || length > MaxExtent {
		return nil, fmt.Errorf("schem: extents %dx%dx%d exceed %d", width, height, length, MaxExtent)
	}
	return &Structure{Width: width, Height: height, Length: length}, nil
}

// Place adds a placement. Air placements are dropped since absence already
// means air.
func (s *Structure) Place(x, y, z int, block string) error {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height || z < 0 || z >= s.Length {
		return fmt.Errorf("schem: position (%d,%d,%d) outside %dx%dx%d", x, y, z, s.Width, s.Height, s.Length)
	}
	if !strings.Contains(block, ":") {
		return fmt.Errorf("schem: block id %q has no namespace", block)
	}
	if block == AirBlock {
		return nil
	}
	s.Placements = append(s.Placements, Placement{X: x, Y: y, Z: z, Block: block})
	return nil
}

// linear is the Sponge block order: x fastest, then z, then y.
func (s *Structure) linear(x, y, z int) int {
	return x + z*s.Width + y*s.Width*s.Length
}

// dense resolves placements into a block id per position (later placements
// win) and the block palette: air first, then blocks in scan order. The grid
// holds one uint32 per position; block names live only in the palette.
func (s *Structure) dense() ([]uint32, []string) {
	grid := make([]uint32, s.Width*s.Height*s.Length)

	// First pass ids follow placement order, 0 is air.
	var names []string
	byName := map[string]uint32{}
	for _, p := range s.Placements {
		id := uint32(0)
		if p.Block != AirBlock && p.Block != "" {
			var seen bool
			if id, seen = byName[p.Block]; !seen {
				names = append(names, p.Block)
				id = uint32(len(names))
				byName[p.Block] = id
			}
		}
		grid[s.linear(p.X, p.Y, p.Z)] = id
	}

	// Renumber in scan order.
	remap := make([]uint32, len(names)+1)
	palette := []string{AirBlock}
	for i, id := range grid {
		if id == 0 {
			continue
		}
		if remap[id] == 0 {
			palette = append(palette, names[id-1])
			remap[id] = uint32(len(palette) - 1)
		}
		grid[i] = remap[id]
	}
	return grid, palette
}

// Blocks returns the distinct non-air blocks in Sponge scan order.
func (s *Structure) Blocks() []string {
	_, palette := s.dense()
	return palette[1:]
}

// Count returns the number of non-air positions.
func (s *Structure) Count() int {
	seen := make(map[int]struct{}, len(s.Placements))
	for _, p := range s.Placements {
		seen[s.linear(p.X, p.Y, p.Z)] = struct{}{}
	}
	return len(seen)
}
