package pixelart

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseFill turns a fill setting into a color. "" and "none" mean no fill,
// "auto" picks the dominant color of src, anything else is a hex color
// such as "#1e90ff" or "1e90ff".
func ParseFill(s string, src image.Image) (*color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none":
		return nil, nil
	case "auto":
		if src == nil || src.Bounds().Empty() {
			return nil, ErrEmptySource
		}
		c := DominantFill(src)
		return &c, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("fill color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return &color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// DominantFill returns the most prominent color of img as an opaque fill.
func DominantFill(img image.Image) color.NRGBA {
	c := dominantcolor.Find(img)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
