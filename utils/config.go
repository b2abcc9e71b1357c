package utils

import (
	"fmt"
	"image"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/pixelart"
	"github.com/voxelsplace/pixelart/schem"
)

// Config holds conversion settings shared by the convert and batch
// commands. It can be loaded from a TOML file; flags override it.
type Config struct {
	Width               int    `toml:"width"`
	Height              int    `toml:"height"`
	MaintainAspectRatio bool   `toml:"maintain_aspect_ratio"`
	Crop                bool   `toml:"crop"`
	Fill                string `toml:"fill"`
	Shaded              bool   `toml:"shaded"`
	Version             string `toml:"version"`
	Blocks              string `toml:"blocks"`
	OutDir              string `toml:"out_dir"`
	Jobs                int    `toml:"jobs"`
}

// DefaultConfig mirrors the converter's stock settings.
func DefaultConfig() Config {
	return Config{
		MaintainAspectRatio: true,
		Version:             schem.DefaultVersion.Name,
	}
}

// LoadConfig overlays the TOML file at path onto cfg. Unknown keys are an
// error.
func LoadConfig(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Options resolves the conversion options for src. src is only consulted
// for an "auto" fill.
func (c Config) Options(src image.Image) (pixelart.Options, error) {
	fill, err := pixelart.ParseFill(c.Fill, src)
	if err != nil {
		return pixelart.Options{}, err
	}
	return pixelart.Options{
		MaintainAspectRatio: c.MaintainAspectRatio,
		CropToFit:           c.Crop,
		Fill:                fill,
		UseShadedPalette:    c.Shaded,
	}, nil
}

// Table returns the configured block table, the embedded one by default.
func (c Config) Table() (*palette.Table, error) {
	if c.Blocks == "" {
		return palette.Default(), nil
	}
	return palette.LoadTableFile(c.Blocks)
}

// TargetVersion resolves the configured game version.
func (c Config) TargetVersion() (schem.Version, error) {
	return schem.LookupVersion(c.Version)
}
