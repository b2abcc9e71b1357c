// Package pixelart converts raster images into block pixel art: a
// quantized preview image and a one block high schematic.
package pixelart

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/voxelsplace/pixelart/internal/atomicfile"
	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/schem"
)

// Result is everything one conversion produces. Preview and Structure are
// both derived from Indices.
type Result struct {
	Palette   *palette.Palette
	Indices   IndexMatrix
	Preview   *image.NRGBA
	Structure *schem.Structure
}

// Converter runs conversions against a block table. The zero value uses the
// embedded table. A Converter holds no per-conversion state and may be used
// from several goroutines.
type Converter struct {
	Table *palette.Table
}

func (c Converter) table() *palette.Table {
	if c.Table == nil {
		return palette.Default()
	}
	return c.Table
}

// Convert runs the whole pipeline on src. Every call builds its own palette
// and matcher; no partial result is returned on error.
func (c Converter) Convert(src image.Image, width, height int, opts Options) (*Result, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}
	pal := c.table().Palette(opts.PaletteKind())

	img, err := Resample(src, width, height, opts)
	if err != nil {
		return nil, err
	}
	idx, err := Quantize(img, pal)
	if err != nil {
		return nil, err
	}
	preview, err := Render(idx, pal)
	if err != nil {
		return nil, err
	}
	st, err := Serialize(idx, pal)
	if err != nil {
		return nil, err
	}
	return &Result{Palette: pal, Indices: idx, Preview: preview, Structure: st}, nil
}

// Convert runs a conversion with the embedded block table.
func Convert(src image.Image, width, height int, opts Options) (*Result, error) {
	return Converter{}.Convert(src, width, height, opts)
}

// OutputNames returns the default preview and schematic file names for a
// conversion of the file at srcPath.
func OutputNames(srcPath string, width, height int, shaded bool) (preview, structure string) {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	suffix := ""
	if !shaded {
		suffix = "_noshade"
	}
	preview = fmt.Sprintf("%s_%dx%d_minecraftmap%s.png", base, width, height, suffix)
	structure = fmt.Sprintf("%s_%dx%d_pixelart.schem", base, width, height)
	return preview, structure
}

// WriteOutputs saves both outputs of r and returns their absolute paths.
// Both files are fully encoded to temporary files before either is renamed
// into place, so a failed encode or write leaves existing files at
// previewPath and structurePath untouched.
func (r *Result) WriteOutputs(previewPath, structurePath string, v schem.Version) (preview, structure string, err error) {
	pv, err := atomicfile.Stage(previewPath, func(w io.Writer) error {
		return imaging.Encode(w, r.Preview, imaging.PNG)
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrSerializationIO, err)
	}
	st, err := atomicfile.Stage(structurePath, func(w io.Writer) error {
		return schem.Encode(w, r.Structure, v)
	})
	if err != nil {
		pv.Discard()
		return "", "", fmt.Errorf("%w: write %s: %v", ErrSerializationIO, structurePath, err)
	}
	if preview, err = pv.Commit(); err != nil {
		st.Discard()
		return "", "", fmt.Errorf("%w: %v", ErrSerializationIO, err)
	}
	if structure, err = st.Commit(); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrSerializationIO, err)
	}
	return preview, structure, nil
}
