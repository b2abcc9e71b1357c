package palette

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed blocks.toml
var blocksTOML []byte

// AirBlock is the block id of the empty record.
const AirBlock = "minecraft:air"

// Record is one row of the block table: a block id together with the colors
// that select it in the compact and extended palettes.
type Record struct {
	Index    int
	Block    string
	Color    RGB
	Shades   []RGB
	Sentinel bool
}

// Table is the validated block table. Both palettes are derived from it, so
// a palette index can never point at a block the table does not know.
type Table struct {
	records []Record
}

type tableFile struct {
	Block []recordFile `toml:"block"`
}

type recordFile struct {
	Index    int     `toml:"index"`
	Block    string  `toml:"block"`
	Color    []int   `toml:"color"`
	Shades   [][]int `toml:"shades"`
	Sentinel bool    `toml:"sentinel"`
}

var defaultTable = mustParse(blocksTOML)

func mustParse(data []byte) *Table {
	t, err := ParseTable(data)
	if err != nil {
		panic("palette: embedded block table: " + err.Error())
	}
	return t
}

// Default returns the built-in block table.
func Default() *Table { return defaultTable }

// LoadTableFile reads and validates a block table from a TOML file.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes a TOML block table and checks it is usable by both
// palettes: contiguous indices from 0, record 0 is the air sentinel, every
// other record has a block id, a color and 1..4 shades.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("invalid block table: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("invalid block table: unknown key %q", undecoded[0].String())
	}
	if len(f.Block) < 2 {
		return nil, fmt.Errorf("invalid block table: need air plus at least one block, got %d records", len(f.Block))
	}

	t := &Table{records: make([]Record, 0, len(f.Block))}
	for i, rf := range f.Block {
		if rf.Index != i {
			return nil, fmt.Errorf("record %d: index %d out of sequence", i, rf.Index)
		}
		if err := checkBlockID(rf.Block); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rec := Record{Index: i, Block: rf.Block, Sentinel: rf.Sentinel}
		if i == 0 {
			if !rf.Sentinel || rf.Block != AirBlock {
				return nil, fmt.Errorf("record 0 must be the %s sentinel", AirBlock)
			}
			if len(rf.Color) != 0 || len(rf.Shades) != 0 {
				return nil, fmt.Errorf("record 0: sentinel cannot carry colors")
			}
			t.records = append(t.records, rec)
			continue
		}
		if rf.Sentinel {
			return nil, fmt.Errorf("record %d: only record 0 may be a sentinel", i)
		}
		if rec.Color, err = toRGB(rf.Color); err != nil {
			return nil, fmt.Errorf("record %d color: %w", i, err)
		}
		if len(rf.Shades) < 1 || len(rf.Shades) > extendedSentinels {
			return nil, fmt.Errorf("record %d: want 1..%d shades, got %d", i, extendedSentinels, len(rf.Shades))
		}
		for j, s := range rf.Shades {
			c, err := toRGB(s)
			if err != nil {
				return nil, fmt.Errorf("record %d shade %d: %w", i, j, err)
			}
			rec.Shades = append(rec.Shades, c)
		}
		t.records = append(t.records, rec)
	}

	if n := t.extendedLen(); n > MaxEntries {
		return nil, fmt.Errorf("extended palette has %d entries, limit is %d", n, MaxEntries)
	}
	return t, nil
}

func toRGB(v []int) (RGB, error) {
	if len(v) != 3 {
		return RGB{}, fmt.Errorf("want 3 channels, got %d", len(v))
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return RGB{}, fmt.Errorf("channel %d out of range 0..255", c)
		}
	}
	return RGB{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2])}, nil
}

func checkBlockID(id string) error {
	ns, name, ok := strings.Cut(id, ":")
	if !ok || ns == "" || name == "" {
		return fmt.Errorf("block id %q is not namespace:name", id)
	}
	for _, r := range ns + name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.', r == '/':
		default:
			return fmt.Errorf("block id %q has invalid character %q", id, r)
		}
	}
	return nil
}

func (t *Table) extendedLen() int {
	n := extendedSentinels
	for _, r := range t.records[1:] {
		n += len(r.Shades)
	}
	return n
}

// Len returns the number of records, air included.
func (t *Table) Len() int { return len(t.records) }

// Records returns a copy of the table rows.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		r.Shades = append([]RGB(nil), r.Shades...)
		out[i] = r
	}
	return out
}

// BlockColor returns the compact color of the first record placing block.
func (t *Table) BlockColor(block string) (RGB, bool) {
	for _, r := range t.records[1:] {
		if r.Block == block {
			return r.Color, true
		}
	}
	return RGB{}, false
}

// Palette builds a fresh palette of the given kind. Palettes are never shared
// between callers.
func (t *Table) Palette(kind Kind) *Palette {
	p := &Palette{kind: kind}
	switch kind {
	case Extended:
		p.entries = make([]entry, 0, t.extendedLen())
		for n := 0; n < extendedSentinels; n++ {
			p.entries = append(p.entries, entry{record: 0, sentinel: true})
		}
		for _, r := range t.records[1:] {
			for _, s := range r.Shades {
				p.entries = append(p.entries, entry{color: s, record: r.Index, block: r.Block})
			}
		}
	default:
		p.kind = Compact
		p.entries = make([]entry, 0, len(t.records))
		p.entries = append(p.entries, entry{record: 0, sentinel: true})
		for _, r := range t.records[1:] {
			p.entries = append(p.entries, entry{color: r.Color, record: r.Index, block: r.Block})
		}
	}
	return p
}

// Compact is shorthand for t.Palette(Compact).
func (t *Table) Compact() *Palette { return t.Palette(Compact) }

// Extended is shorthand for t.Palette(Extended).
func (t *Table) Extended() *Palette { return t.Palette(Extended) }
