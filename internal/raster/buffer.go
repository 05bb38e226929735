package raster

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrShape is the sentinel matched by every ShapeError.
var ErrShape = errors.New("shape error")

// ShapeError reports a malformed or mismatched buffer shape.
type ShapeError struct {
	Op     string
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// Is makes errors.Is(err, ErrShape) hold for any ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

func shapeErrorf(op, format string, args ...interface{}) error {
	return &ShapeError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Buffer is an immutable 2D grid of 8-bit samples.
type Buffer struct {
	width    int
	height   int
	channels int
	pix      []byte
}

// New creates a buffer from a copy of data.
//
// Returns a ShapeError if the dimensions are not positive, the channel count
// is not 1, 3 or 4, or len(data) != width*height*channels.
func New(width, height, channels int, data []byte) (*Buffer, error) {
	if err := checkShape("create", width, height, channels); err != nil {
		return nil, err
	}
	if want := width * height * channels; len(data) != want {
		return nil, shapeErrorf("create", "got %d samples, want %d (%dx%dx%d)",
			len(data), want, width, height, channels)
	}
	pix := make([]byte, len(data))
	copy(pix, data)
	return &Buffer{width: width, height: height, channels: channels, pix: pix}, nil
}

// Filled creates a buffer with every pixel set to the given samples.
// len(px) determines the channel count.
func Filled(width, height int, px ...byte) (*Buffer, error) {
	channels := len(px)
	if err := checkShape("create", width, height, channels); err != nil {
		return nil, err
	}
	pix := make([]byte, width*height*channels)
	for i := 0; i < len(pix); i += channels {
		copy(pix[i:], px)
	}
	return &Buffer{width: width, height: height, channels: channels, pix: pix}, nil
}

// wrap takes ownership of pix without copying. Callers inside the package
// must not retain pix.
func wrap(width, height, channels int, pix []byte) *Buffer {
	return &Buffer{width: width, height: height, channels: channels, pix: pix}
}

func checkShape(op string, width, height, channels int) error {
	if width <= 0 || height <= 0 {
		return shapeErrorf(op, "dimensions must be positive, got %dx%d", width, height)
	}
	switch channels {
	case 1, 3, 4:
	default:
		return shapeErrorf(op, "unsupported channel count %d", channels)
	}
	return nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Channels returns the number of samples per pixel.
func (b *Buffer) Channels() int { return b.channels }

// Len returns the total number of samples.
func (b *Buffer) Len() int { return len(b.pix) }

// HasAlpha reports whether the last channel is alpha.
func (b *Buffer) HasAlpha() bool { return b.channels == 4 }

// Bytes returns a copy of the samples.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}

// At returns a copy of the samples of pixel (x, y).
func (b *Buffer) At(x, y int) ([]byte, error) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, b.width, b.height)
	}
	i := (y*b.width + x) * b.channels
	out := make([]byte, b.channels)
	copy(out, b.pix[i:i+b.channels])
	return out, nil
}

// Equal reports whether b and o have the same shape and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.width == o.width && b.height == o.height &&
		b.channels == o.channels && bytes.Equal(b.pix, o.pix)
}

// SameSize reports whether b and o have the same width and height.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.width == o.width && b.height == o.height
}

func (b *Buffer) String() string {
	return fmt.Sprintf("raster.Buffer(%dx%dx%d)", b.width, b.height, b.channels)
}
