package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ITU-R BT.601 luma weights, applied in R,G,B order.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luma returns the rounded BT.601 luma of an RGB sample triple.
func Luma(r, g, b byte) byte {
	return byte(math.Round(LumaR*float64(r) + LumaG*float64(g) + LumaB*float64(b)))
}

// ToGrayscale returns a 1-channel luma buffer. Alpha is dropped.
//
// A buffer that is already grayscale is rejected with a ShapeError so that
// callers cannot silently double-convert.
func (b *Buffer) ToGrayscale() (*Buffer, error) {
	if b.channels == 1 {
		return nil, shapeErrorf("grayscale", "buffer is already single-channel")
	}
	return b.luma(), nil
}

// LumaPlane returns the luma of every pixel as a 1-channel buffer. Unlike
// ToGrayscale it accepts grayscale input and returns a copy of it.
func (b *Buffer) LumaPlane() *Buffer {
	if b.channels == 1 {
		return wrap(b.width, b.height, 1, b.Bytes())
	}
	return b.luma()
}

func (b *Buffer) luma() *Buffer {
	n := b.width * b.height
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		p := b.pix[i*b.channels:]
		out[i] = Luma(p[0], p[1], p[2])
	}
	return wrap(b.width, b.height, 1, out)
}

// ToColorForDisplay widens a grayscale buffer to 3 channels by replication.
// Color buffers are returned as an equal copy.
func (b *Buffer) ToColorForDisplay() *Buffer {
	if b.channels != 1 {
		return wrap(b.width, b.height, b.channels, b.Bytes())
	}
	out := make([]byte, len(b.pix)*3)
	for i, v := range b.pix {
		out[i*3] = v
		out[i*3+1] = v
		out[i*3+2] = v
	}
	return wrap(b.width, b.height, 3, out)
}

// Plane returns a copy of channel c as a row-major slice.
func (b *Buffer) Plane(c int) []byte {
	n := b.width * b.height
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = b.pix[i*b.channels+c]
	}
	return out
}

// FromPlanes interleaves per-channel planes into a new buffer.
func FromPlanes(width, height int, planes ...[]byte) (*Buffer, error) {
	channels := len(planes)
	if err := checkShape("planes", width, height, channels); err != nil {
		return nil, err
	}
	n := width * height
	for c, p := range planes {
		if len(p) != n {
			return nil, shapeErrorf("planes", "plane %d has %d samples, want %d", c, len(p), n)
		}
	}
	pix := make([]byte, n*channels)
	for i := 0; i < n; i++ {
		for c, p := range planes {
			pix[i*channels+c] = p[i]
		}
	}
	return wrap(width, height, channels, pix), nil
}

// FromImage converts a decoded image into a buffer.
//
// Grayscale images become 1-channel buffers, images with at least one
// non-opaque pixel become 4-channel (non-premultiplied) buffers and all
// others become 3-channel RGB buffers.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if err := checkShape("decode", width, height, 1); err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]byte, 0, width*height)
		for y := 0; y < height; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			pix = append(pix, src.Pix[off:off+width]...)
		}
		return wrap(width, height, 1, pix), nil
	case *image.Gray16:
		pix := make([]byte, 0, width*height)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				pix = append(pix, color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y)
			}
		}
		return wrap(width, height, 1, pix), nil
	}

	nrgba := imaging.Clone(img)
	opaque := true
	for i := 3; i < len(nrgba.Pix); i += 4 {
		if nrgba.Pix[i] != 0xff {
			opaque = false
			break
		}
	}
	if !opaque {
		return wrap(width, height, 4, nrgba.Pix), nil
	}

	pix := make([]byte, width*height*3)
	for i, j := 0, 0; i < len(nrgba.Pix); i, j = i+4, j+3 {
		pix[j] = nrgba.Pix[i]
		pix[j+1] = nrgba.Pix[i+1]
		pix[j+2] = nrgba.Pix[i+2]
	}
	return wrap(width, height, 3, pix), nil
}

// Image returns the buffer as an *image.Gray (1 channel) or *image.NRGBA.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)
	switch b.channels {
	case 1:
		g := image.NewGray(rect)
		copy(g.Pix, b.pix)
		return g
	case 4:
		m := image.NewNRGBA(rect)
		copy(m.Pix, b.pix)
		return m
	}
	m := image.NewNRGBA(rect)
	for i, j := 0, 0; j < len(b.pix); i, j = i+4, j+3 {
		m.Pix[i] = b.pix[j]
		m.Pix[i+1] = b.pix[j+1]
		m.Pix[i+2] = b.pix[j+2]
		m.Pix[i+3] = 0xff
	}
	return m
}

// fromNRGBA keeps the first channels samples of every NRGBA pixel.
func fromNRGBA(m *image.NRGBA, channels int) *Buffer {
	width, height := m.Rect.Dx(), m.Rect.Dy()
	pix := make([]byte, width*height*channels)
	for y := 0; y < height; y++ {
		row := m.Pix[y*m.Stride:]
		for x := 0; x < width; x++ {
			copy(pix[(y*width+x)*channels:], row[x*4:x*4+channels])
		}
	}
	return wrap(width, height, channels, pix)
}
