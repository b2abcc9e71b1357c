package palette

import (
	"encoding/binary"
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
)

const (
	// EmptyIndex is the palette slot reserved for air in every palette.
	EmptyIndex = 0

	// SentinelValue is the channel value of the empty slot's point. It lies
	// far outside the 0..255 cube, so no real pixel is ever nearest to it.
	SentinelValue = 9999

	// MaxEntries bounds palette length so indices fit in a byte.
	MaxEntries = 256

	// the extended palette repeats the empty slot to keep shade groups of
	// four aligned with record indices.
	extendedSentinels = 4
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Kind selects which colors of the block table make up a palette.
type Kind int

const (
	Compact Kind = iota
	Extended
)

func (k Kind) String() string {
	switch k {
	case Extended:
		return "extended"
	default:
		return "compact"
	}
}

// ParseKind accepts "compact" (or "flat") and "extended" (or "shaded").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "compact", "flat":
		return Compact, nil
	case "extended", "shaded":
		return Extended, nil
	}
	return Compact, fmt.Errorf("unknown palette kind %q", s)
}

type entry struct {
	color    RGB
	record   int
	block    string
	sentinel bool
}

// Palette is an ordered, immutable list of colors. Every index resolves to
// the table record it was built from.
type Palette struct {
	kind    Kind
	entries []entry
}

func (p *Palette) Kind() Kind { return p.kind }

// Len returns the number of palette entries, sentinels included.
func (p *Palette) Len() int { return len(p.entries) }

// Color returns the color at index i. ok is false for sentinel slots and
// out-of-range indices.
func (p *Palette) Color(i int) (c RGB, ok bool) {
	if i < 0 || i >= len(p.entries) || p.entries[i].sentinel {
		return RGB{}, false
	}
	return p.entries[i].color, true
}

// IsEmpty reports whether index i is a sentinel slot (air).
func (p *Palette) IsEmpty(i int) bool {
	return i >= 0 && i < len(p.entries) && p.entries[i].sentinel
}

// Block returns the block id placed for index i. Sentinel slots resolve to
// AirBlock. ok is false only for indices outside the palette.
func (p *Palette) Block(i int) (string, bool) {
	if i < 0 || i >= len(p.entries) {
		return "", false
	}
	if p.entries[i].sentinel {
		return AirBlock, true
	}
	return p.entries[i].block, true
}

// RecordIndex returns the table record index behind palette index i.
func (p *Palette) RecordIndex(i int) (int, bool) {
	if i < 0 || i >= len(p.entries) {
		return 0, false
	}
	return p.entries[i].record, true
}

// Points returns the palette as points in RGB space, sentinel slots at
// (SentinelValue, SentinelValue, SentinelValue).
func (p *Palette) Points() [][3]float64 {
	pts := make([][3]float64, len(p.entries))
	for i, e := range p.entries {
		if e.sentinel {
			pts[i] = [3]float64{SentinelValue, SentinelValue, SentinelValue}
			continue
		}
		pts[i] = [3]float64{float64(e.color.R), float64(e.color.G), float64(e.color.B)}
	}
	return pts
}

// Fingerprint is a content hash of the palette, stable across runs.
func (p *Palette) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	buf[0] = byte(p.kind)
	_, _ = d.Write(buf[:1])
	for _, e := range p.entries {
		binary.LittleEndian.PutUint32(buf[:4], uint32(e.record))
		buf[4], buf[5], buf[6] = e.color.R, e.color.G, e.color.B
		buf[7] = 0
		if e.sentinel {
			buf[7] = 1
		}
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(e.block)
	}
	return d.Sum64()
}
