package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// Crop returns the rectangle (x1,y1)-(x2,y2) of b as a new buffer. The
// top-left corner is inclusive, the bottom-right one exclusive.
func (b *Buffer) Crop(x1, y1, x2, y2 int) (*Buffer, error) {
	if x1 < 0 || y1 < 0 || x2 > b.width || y2 > b.height {
		return nil, shapeErrorf("crop", "region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			x1, y1, x2, y2, b.width, b.height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, shapeErrorf("crop", "invalid region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(b.Image(), image.Rect(x1, y1, x2, y2))
	return fromNRGBA(cropped, b.channels), nil
}

// NamedRegion resolves a region name to a rectangle of a width x height
// image. Known names are top-left, top-right, bottom-left, bottom-right,
// top-half, bottom-half, left-half, right-half and center (the middle 50%).
func NamedRegion(width, height int, name string) (image.Rectangle, error) {
	midX, midY := width/2, height/2

	switch name {
	case "top-left":
		return image.Rect(0, 0, midX, midY), nil
	case "top-right":
		return image.Rect(midX, 0, width, midY), nil
	case "bottom-left":
		return image.Rect(0, midY, midX, height), nil
	case "bottom-right":
		return image.Rect(midX, midY, width, height), nil
	case "top-half":
		return image.Rect(0, 0, width, midY), nil
	case "bottom-half":
		return image.Rect(0, midY, width, height), nil
	case "left-half":
		return image.Rect(0, 0, midX, height), nil
	case "right-half":
		return image.Rect(midX, 0, width, height), nil
	case "center":
		qW, qH := width/4, height/4
		return image.Rect(qW, qH, width-qW, height-qH), nil
	}
	return image.Rectangle{}, shapeErrorf("crop", "unknown region: %s", name)
}
