package raster

import (
	"github.com/disintegration/imaging"
)

// Resize returns a new buffer resampled to targetWidth x targetHeight.
//
// Shrinking in both directions uses area averaging (box filter), anything
// that enlarges an axis uses bilinear interpolation. The channel count is
// preserved. Resizing to the current size returns an equal copy.
func (b *Buffer) Resize(targetWidth, targetHeight int) (*Buffer, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, shapeErrorf("resize", "target dimensions must be positive, got %dx%d",
			targetWidth, targetHeight)
	}
	if targetWidth == b.width && targetHeight == b.height {
		return wrap(b.width, b.height, b.channels, b.Bytes()), nil
	}

	filter := imaging.Linear
	if targetWidth <= b.width && targetHeight <= b.height {
		filter = imaging.Box
	}

	resized := imaging.Resize(b.Image(), targetWidth, targetHeight, filter)
	return fromNRGBA(resized, b.channels), nil
}
