package utils

import (
	"fmt"
	"path/filepath"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/pixelart"
	"github.com/voxelsplace/pixelart/schem"
)

// Outputs are the files written for one source image.
type Outputs struct {
	Source    string
	Preview   string
	Structure string
	Width     int
	Height    int
	Blocks    int
}

// job is the resolved, read-only part of a Config shared across conversions.
type job struct {
	cfg     Config
	table   *palette.Table
	version schem.Version
}

func newJob(cfg Config) (*job, error) {
	t, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	v, err := cfg.TargetVersion()
	if err != nil {
		return nil, err
	}
	return &job{cfg: cfg, table: t, version: v}, nil
}

// RunConvert converts the image at inPath and writes the preview PNG and
// schematic. Empty preview or structure paths get the default names,
// placed in cfg.OutDir or next to the input.
func RunConvert(inPath, previewPath, structurePath string, cfg Config) (*Outputs, error) {
	j, err := newJob(cfg)
	if err != nil {
		return nil, err
	}
	return j.convert(inPath, inPath, previewPath, structurePath)
}

// convert runs one conversion. Default output names derive from name, which
// is inPath unless a batch renamed it to avoid a clash.
func (j *job) convert(inPath, name, previewPath, structurePath string) (*Outputs, error) {
	src, err := LoadImage(inPath)
	if err != nil {
		return nil, err
	}
	opts, err := j.cfg.Options(src)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h, err := opts.Dimensions(b.Dx(), b.Dy(), j.cfg.Width, j.cfg.Height)
	if err != nil {
		return nil, err
	}

	res, err := pixelart.Converter{Table: j.table}.Convert(src, w, h, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inPath, err)
	}

	dir := j.outDir(inPath)
	defPreview, defStructure := pixelart.OutputNames(name, w, h, opts.UseShadedPalette)
	if previewPath == "" {
		previewPath = filepath.Join(dir, defPreview)
	}
	if structurePath == "" {
		structurePath = filepath.Join(dir, defStructure)
	}

	pv, st, err := res.WriteOutputs(previewPath, structurePath, j.version)
	if err != nil {
		return nil, err
	}
	return &Outputs{
		Source:    inPath,
		Preview:   pv,
		Structure: st,
		Width:     w,
		Height:    h,
		Blocks:    res.Structure.Count(),
	}, nil
}

// outDir is where default output names for inPath are placed.
func (j *job) outDir(inPath string) string {
	if j.cfg.OutDir != "" {
		return j.cfg.OutDir
	}
	return filepath.Dir(inPath)
}
