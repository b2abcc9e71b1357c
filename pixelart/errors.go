package pixelart

import "errors"

// Error kinds returned by the pipeline. Callers match them with errors.Is;
// the returned errors wrap them with detail.
var (
	// ErrInvalidDimensions reports a target width or height below 1 or
	// beyond what a structure file can hold.
	ErrInvalidDimensions = errors.New("invalid target dimensions")
	// ErrEmptySource reports a nil, zero-sized or undecodable source image.
	ErrEmptySource = errors.New("empty source image")
	// ErrPaletteIndexUnmapped reports a quantized index without a block.
	ErrPaletteIndexUnmapped = errors.New("palette index has no block")
	// ErrSerializationIO reports a failure writing an output file.
	ErrSerializationIO = errors.New("output write failed")
)
