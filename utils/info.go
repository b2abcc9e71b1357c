package utils

import (
	"fmt"
	"io"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelsplace/pixelart/schem"
)

// RunSchemInfo prints the header and block counts of a schematic.
func RunSchemInfo(path string, w io.Writer) error {
	s, hdr, err := schem.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := schem.EncodeToBytes(s, hdr.Target)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, p := range s.Placements {
		counts[p.Block]++
	}
	blocks := make([]string, 0, len(counts))
	for b := range counts {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool {
		if counts[blocks[i]] != counts[blocks[j]] {
			return counts[blocks[i]] > counts[blocks[j]]
		}
		return blocks[i] < blocks[j]
	})

	fmt.Fprintf(w, "file:        %s\n", path)
	fmt.Fprintf(w, "format:      sponge v%d\n", hdr.Version)
	fmt.Fprintf(w, "target:      %s (data version %d)\n", hdr.Target, hdr.Target.DataVersion)
	fmt.Fprintf(w, "size:        %dx%dx%d\n", hdr.Width, hdr.Height, hdr.Length)
	fmt.Fprintf(w, "palette:     %d\n", hdr.PaletteMax)
	fmt.Fprintf(w, "blocks:      %d\n", len(s.Placements))
	fmt.Fprintf(w, "digest:      %016x\n", xxhash.Sum64(data))
	for _, b := range blocks {
		fmt.Fprintf(w, "  %6d  %s\n", counts[b], b)
	}
	return nil
}
