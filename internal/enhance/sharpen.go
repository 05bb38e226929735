package enhance

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// Sharpen convolves every color channel with the 3x3 kernel in p. Pixels
// outside the image are replicated from the nearest border pixel.
//
// The default kernel sums to 1, so flat regions are left unchanged.
func Sharpen(b *raster.Buffer, p SharpenParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var kernel [9]float64
	copy(kernel[:], p.Kernel)

	return mapPlanes(b, func(plane *image.Gray) ([]byte, error) {
		return redChannel(imaging.Convolve3x3(plane, kernel, &imaging.ConvolveOptions{})), nil
	})
}

// mapPlanes runs fn concurrently on every color channel of b, seen as a
// grayscale image, and reassembles the results. Alpha is copied unchanged.
func mapPlanes(b *raster.Buffer, fn func(plane *image.Gray) ([]byte, error)) (*raster.Buffer, error) {
	width, height := b.Width(), b.Height()
	planes := make([][]byte, b.Channels())
	colorChannels := b.Channels()
	if b.HasAlpha() {
		colorChannels = 3
		planes[3] = b.Plane(3)
	}

	var g errgroup.Group
	for c := 0; c < colorChannels; c++ {
		c := c
		g.Go(func() error {
			gray := image.NewGray(image.Rect(0, 0, width, height))
			gray.Pix = b.Plane(c)
			out, err := fn(gray)
			if err != nil {
				return err
			}
			planes[c] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raster.FromPlanes(width, height, planes...)
}

// redChannel extracts the first sample of every NRGBA pixel.
func redChannel(m *image.NRGBA) []byte {
	width, height := m.Rect.Dx(), m.Rect.Dy()
	out := make([]byte, 0, width*height)
	for y := 0; y < height; y++ {
		row := m.Pix[y*m.Stride:]
		for x := 0; x < width; x++ {
			out = append(out, row[x*4])
		}
	}
	return out
}
