package schem

import (
	"fmt"
	"io"
	"os"

	"github.com/voxelsplace/pixelart/internal/atomicfile"
)

// WriteFile encodes s to path atomically and returns the absolute path
// written. An existing file at path is replaced only on success.
func WriteFile(s *Structure, path string, v Version) (string, error) {
	raw, err := marshalNBT(s, v)
	if err != nil {
		return "", err
	}
	abs, err := atomicfile.Write(path, func(w io.Writer) error {
		return compress(w, raw)
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return abs, nil
}

// ReadFile decodes the schematic stored at path.
func ReadFile(path string) (*Structure, Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, err
	}
	defer f.Close()
	return Decode(f)
}
