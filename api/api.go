package api

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/pixelart"
	"github.com/voxelsplace/pixelart/schem"
	"github.com/voxelsplace/pixelart/utils"
)

// Request describes one in-memory conversion. Zero Width and Height follow
// the same rules as the command line: derived from the aspect ratio or the
// default size.
type Request struct {
	Width               int
	Height              int
	MaintainAspectRatio bool
	Crop                bool
	Fill                string
	Shaded              bool
	Version             string
}

// Response carries the encoded outputs of a conversion.
type Response struct {
	Width     int
	Height    int
	Blocks    int
	Preview   []byte // PNG
	Structure []byte // gzip-compressed Sponge schematic
}

// ConvertBytes converts encoded image bytes into a preview PNG and a
// schematic, both returned as bytes.
func ConvertBytes(img []byte, req Request) (*Response, error) {
	src, err := utils.DecodeImage(img)
	if err != nil {
		return nil, err
	}
	v, err := schem.LookupVersion(req.Version)
	if err != nil {
		return nil, err
	}
	fill, err := pixelart.ParseFill(req.Fill, src)
	if err != nil {
		return nil, err
	}
	opts := pixelart.Options{
		MaintainAspectRatio: req.MaintainAspectRatio,
		CropToFit:           req.Crop,
		Fill:                fill,
		UseShadedPalette:    req.Shaded,
	}
	b := src.Bounds()
	w, h, err := opts.Dimensions(b.Dx(), b.Dy(), req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	res, err := pixelart.Convert(src, w, h, opts)
	if err != nil {
		return nil, err
	}

	var preview bytes.Buffer
	if err := imaging.Encode(&preview, res.Preview, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %v", pixelart.ErrSerializationIO, err)
	}
	structure, err := schem.EncodeToBytes(res.Structure, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pixelart.ErrSerializationIO, err)
	}
	return &Response{
		Width:     w,
		Height:    h,
		Blocks:    res.Structure.Count(),
		Preview:   preview.Bytes(),
		Structure: structure,
	}, nil
}

// ConvertMany converts several named images with the same settings. Each
// image is converted on its own; the first failure aborts.
func ConvertMany(files map[string][]byte, req Request) (map[string]*Response, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]*Response, len(files))
	for _, name := range names {
		res, err := ConvertBytes(files[name], req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = res
	}
	return out, nil
}

// SchemToGLB takes schematic file bytes and returns a .glb built with the
// greedy mesher.
func SchemToGLB(data []byte) ([]byte, error) {
	s, _, err := schem.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	doc, err := utils.BuildGLB(s, palette.Default())
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PaletteSwatchPNG renders the named palette ("compact" or "extended") as
// a PNG of tileSize squares.
func PaletteSwatchPNG(kind string, tileSize int) ([]byte, error) {
	k, err := palette.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	img, err := utils.PaletteSwatch(palette.Default().Palette(k), tileSize)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
