package pixelart

import (
	"image"

	"github.com/disintegration/imaging"
)

func checkSource(src image.Image) error {
	if src == nil || src.Bounds().Empty() {
		return ErrEmptySource
	}
	return nil
}

// Resample scales src to exactly width×height with nearest-neighbor
// sampling. With CropToFit the image keeps its aspect ratio and the overflow
// on one axis is cropped around the center. A Fill color is composited
// under the result afterwards. src is never modified.
func Resample(src image.Image, width, height int, opts Options) (*image.NRGBA, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	var dst *image.NRGBA
	if opts.CropToFit {
		dst = resizeCrop(src, width, height)
	} else {
		dst = imaging.Resize(src, width, height, imaging.NearestNeighbor)
	}

	if opts.Fill != nil {
		bg := imaging.New(width, height, *opts.Fill)
		dst = imaging.Overlay(bg, dst, image.Pt(0, 0), 1.0)
	}
	return dst, nil
}

// cropGeometry returns the intermediate size and the top-left corner of the
// width×height window cut out of it.
func cropGeometry(srcW, srcH, width, height int) (tw, th int, off image.Point) {
	widthRatio := float64(width) / float64(srcW)
	heightRatio := float64(height) / float64(srcH)
	aspect := float64(srcW) / float64(srcH)
	if widthRatio > heightRatio {
		th = max(roundHalfEven(float64(width)/aspect), height)
		return width, th, image.Pt(0, (th-height)/2)
	}
	tw = max(roundHalfEven(float64(height)*aspect), width)
	return tw, height, image.Pt((tw-width)/2, 0)
}

func resizeCrop(src image.Image, width, height int) *image.NRGBA {
	b := src.Bounds()
	tw, th, off := cropGeometry(b.Dx(), b.Dy(), width, height)
	tmp := imaging.Resize(src, tw, th, imaging.NearestNeighbor)
	if off == (image.Point{}) && tw == width && th == height {
		return tmp
	}
	return imaging.Crop(tmp, image.Rect(off.X, off.Y, off.X+width, off.Y+height))
}
