package schem

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// spongeVersion is the Sponge schematic format revision written by Encode.
const spongeVersion = 2

// Header holds the fixed fields of a Sponge schematic.
type Header struct {
	Version    int32 // format revision
	Target     Version
	Width      int
	Height     int
	Length     int
	PaletteMax int
}

// Encode writes s as a gzip-compressed Sponge schematic targeting v. Output
// bytes depend only on s and v.
func Encode(w io.Writer, s *Structure, v Version) error {
	raw, err := marshalNBT(s, v)
	if err != nil {
		return err
	}
	return compress(w, raw)
}

// compress gzips raw with a zero header so identical input gives identical
// files.
func compress(w io.Writer, raw []byte) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// EncodeToBytes returns the schematic file as bytes instead of writing it.
func EncodeToBytes(s *Structure, v Version) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalNBT(s *Structure, v Version) ([]byte, error) {
	if _, err := New(s.Width, s.Height, s.Length); err != nil {
		return nil, err
	}
	for _, p := range s.Placements {
		if p.X < 0 || p.X >= s.Width || p.Y < 0 || p.Y >= s.Height || p.Z < 0 || p.Z >= s.Length {
			return nil, fmt.Errorf("schem: placement (%d,%d,%d) outside structure", p.X, p.Y, p.Z)
		}
	}
	grid, palette := s.dense()

	blockData := make([]byte, 0, len(grid))
	for _, id := range grid {
		blockData = writeUVarint(blockData, id)
	}

	w := &nbtWriter{}
	w.beginCompound("Schematic")
	w.putInt("Version", spongeVersion)
	w.putInt("DataVersion", v.DataVersion)
	w.putShort("Width", int16(s.Width))
	w.putShort("Height", int16(s.Height))
	w.putShort("Length", int16(s.Length))
	w.putIntArray("Offset", []int32{0, 0, 0})
	w.putInt("PaletteMax", int32(len(palette)))
	w.beginCompound("Palette")
	for id, name := range palette {
		w.putInt(name, int32(id))
	}
	w.endCompound()
	w.putByteArray("BlockData", blockData)
	w.putEmptyList("BlockEntities", tagCompound)
	w.endCompound()
	return w.bytes(), nil
}

// Decode reads a Sponge schematic (revision 1 or 2, gzip-compressed or raw)
// back into a structure. Placements come out in Sponge scan order.
func Decode(r io.Reader) (*Structure, Header, error) {
	var hdr Header
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, hdr, err
	}
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, hdr, err
		}
		data, err = io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, hdr, err
		}
	}
	_, root, err := readNBT(data)
	if err != nil {
		return nil, hdr, err
	}
	// some writers nest everything under a "Schematic" compound
	if inner, ok := root["Schematic"].(compound); ok {
		root = inner
	}

	ver, err := intField(root, "Version")
	if err != nil {
		return nil, hdr, err
	}
	if ver != 1 && ver != 2 {
		return nil, hdr, fmt.Errorf("schem: unsupported format revision %d", ver)
	}
	hdr.Version = int32(ver)
	if dv, err := intField(root, "DataVersion"); err == nil {
		hdr.Target = versionFromData(int32(dv))
	}
	if hdr.Width, err = intField(root, "Width"); err != nil {
		return nil, hdr, err
	}
	if hdr.Height, err = intField(root, "Height"); err != nil {
		return nil, hdr, err
	}
	if hdr.Length, err = intField(root, "Length"); err != nil {
		return nil, hdr, err
	}
	s, err := New(hdr.Width, hdr.Height, hdr.Length)
	if err != nil {
		return nil, hdr, err
	}

	pal, ok := root["Palette"].(compound)
	if !ok {
		return nil, hdr, fmt.Errorf("schem: missing Palette")
	}
	names := make([]string, len(pal))
	for name, raw := range pal {
		id, ok := raw.(int32)
		if !ok || id < 0 || int(id) >= len(pal) || names[id] != "" {
			return nil, hdr, fmt.Errorf("schem: bad palette id for %q", name)
		}
		names[id] = name
	}
	hdr.PaletteMax = len(names)
	if pm, err := intField(root, "PaletteMax"); err == nil && pm != len(names) {
		return nil, hdr, fmt.Errorf("schem: PaletteMax %d but palette has %d entries", pm, len(names))
	}

	blockData, ok := root["BlockData"].([]byte)
	if !ok {
		return nil, hdr, fmt.Errorf("schem: missing BlockData")
	}
	pos := 0
	for y := 0; y < s.Height; y++ {
		for z := 0; z < s.Length; z++ {
			for x := 0; x < s.Width; x++ {
				id, err := readUVarint(blockData, &pos)
				if err != nil {
					return nil, hdr, fmt.Errorf("schem: BlockData: %w", err)
				}
				if int(id) >= len(names) {
					return nil, hdr, fmt.Errorf("schem: block id %d outside palette", id)
				}
				if names[id] == AirBlock {
					continue
				}
				s.Placements = append(s.Placements, Placement{X: x, Y: y, Z: z, Block: names[id]})
			}
		}
	}
	if pos != len(blockData) {
		return nil, hdr, fmt.Errorf("schem: %d trailing BlockData bytes", len(blockData)-pos)
	}
	return s, hdr, nil
}

// DecodeBytes parses a schematic held in memory.
func DecodeBytes(data []byte) (*Structure, Header, error) {
	return Decode(bytes.NewReader(data))
}

func intField(c compound, name string) (int, error) {
	switch v := c[name].(type) {
	case int8:
		return int(v), nil
	case int16:
		// extents are unsigned in practice
		return int(uint16(v)), nil
	case int32:
		return int(v), nil
	case nil:
		return 0, fmt.Errorf("schem: missing %s", name)
	default:
		return 0, fmt.Errorf("schem: %s has unexpected type %T", name, v)
	}
}
