package pixelart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/voxelsplace/pixelart/palette"
	"github.com/voxelsplace/pixelart/schem"
)

// DefaultLongSide is the size of the longer image side when no target
// dimensions are given.
const DefaultLongSide = 50

// Options controls one conversion.
type Options struct {
	// MaintainAspectRatio derives a missing target dimension from the
	// source aspect ratio. It does not change resampling.
	MaintainAspectRatio bool
	// CropToFit resizes preserving the aspect ratio and center-crops the
	// overflow instead of stretching.
	CropToFit bool
	// Fill, when set, is composited under the resampled image so
	// transparent pixels take its color.
	Fill *color.NRGBA
	// UseShadedPalette selects the extended palette.
	UseShadedPalette bool
}

// PaletteKind is the palette the options select.
func (o Options) PaletteKind() palette.Kind {
	if o.UseShadedPalette {
		return palette.Extended
	}
	return palette.Compact
}

func checkDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > schem.MaxExtent || height > schem.MaxExtent {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidDimensions, width, height, schem.MaxExtent)
	}
	return nil
}

func roundHalfEven(v float64) int {
	n := int(math.RoundToEven(v))
	if n < 1 {
		return 1
	}
	return n
}

// FitHeight returns the height that keeps a srcW×srcH image's aspect ratio
// at the given width.
func FitHeight(srcW, srcH, width int) (int, error) {
	if srcW < 1 || srcH < 1 {
		return 0, ErrEmptySource
	}
	if width < 1 {
		return 0, fmt.Errorf("%w: width %d", ErrInvalidDimensions, width)
	}
	return roundHalfEven(float64(width) / (float64(srcW) / float64(srcH))), nil
}

// FitWidth returns the width that keeps a srcW×srcH image's aspect ratio at
// the given height.
func FitWidth(srcW, srcH, height int) (int, error) {
	if srcW < 1 || srcH < 1 {
		return 0, ErrEmptySource
	}
	if height < 1 {
		return 0, fmt.Errorf("%w: height %d", ErrInvalidDimensions, height)
	}
	return roundHalfEven(float64(height) * (float64(srcW) / float64(srcH))), nil
}

// DefaultDimensions scales a srcW×srcH image so its longer side is
// DefaultLongSide.
func DefaultDimensions(srcW, srcH int) (int, int, error) {
	if srcW < 1 || srcH < 1 {
		return 0, 0, ErrEmptySource
	}
	long := max(srcW, srcH)
	w := max(srcW*DefaultLongSide/long, 1)
	h := max(srcH*DefaultLongSide/long, 1)
	return w, h, nil
}

// Dimensions resolves the target size from what the caller supplied. Zero
// means "not given": with MaintainAspectRatio the missing side is derived,
// and with neither side given DefaultDimensions applies.
func (o Options) Dimensions(srcW, srcH, width, height int) (int, int, error) {
	if srcW < 1 || srcH < 1 {
		return 0, 0, ErrEmptySource
	}
	var err error
	switch {
	case width == 0 && height == 0:
		return DefaultDimensions(srcW, srcH)
	case height == 0 && o.MaintainAspectRatio:
		height, err = FitHeight(srcW, srcH, width)
	case width == 0 && o.MaintainAspectRatio:
		width, err = FitWidth(srcW, srcH, height)
	}
	if err != nil {
		return 0, 0, err
	}
	if err := checkDimensions(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
