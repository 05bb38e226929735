package enhance

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// GaussianBlur smooths every color channel with a separable Gaussian kernel
// of p.KernelSize taps. Pixels outside the image are replicated from the
// nearest border pixel.
//
// When p.Sigma <= 0 it is derived from the kernel size as
// 0.3*((size-1)*0.5 - 1) + 0.8, which gives 2.6 for the default 15 taps.
func GaussianBlur(b *raster.Buffer, p BlurParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	sigma := p.Sigma
	if sigma <= 0 {
		sigma = KernelSigma(p.KernelSize)
	}
	weights := gaussianWeights(p.KernelSize, sigma)

	return mapPlanes(b, func(plane *image.Gray) ([]byte, error) {
		return separableConvolve(plane.Pix, b.Width(), b.Height(), weights), nil
	})
}

// KernelSigma returns the standard deviation implied by a kernel size.
func KernelSigma(size int) float64 {
	return 0.3*(float64(size-1)*0.5-1) + 0.8
}

// gaussianWeights returns a normalized 1D Gaussian kernel.
func gaussianWeights(size int, sigma float64) []float64 {
	weights := make([]float64, size)
	center := float64(size-1) / 2
	var sum float64
	for i := range weights {
		d := float64(i) - center
		weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// separableConvolve applies weights horizontally then vertically, keeping
// the intermediate pass in floating point and rounding once at the end.
func separableConvolve(src []byte, width, height int, weights []float64) []byte {
	radius := len(weights) / 2
	tmp := make([]float64, width*height)
	out := make([]byte, width*height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := src[y*width : (y+1)*width]
			for x := 0; x < width; x++ {
				var sum float64
				for k, w := range weights {
					sum += w * float64(row[clamp(x+k-radius, 0, width-1)])
				}
				tmp[y*width+x] = sum
			}
		}
	})

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var sum float64
				for k, w := range weights {
					sum += w * tmp[clamp(y+k-radius, 0, height-1)*width+x]
				}
				out[y*width+x] = saturate(sum)
			}
		}
	})
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for border replication in convolution and patch lookups.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
