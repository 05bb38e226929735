package enhance

import (
	"math"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// lut maps every 8-bit input sample to an output sample.
type lut [256]byte

// truncEpsilon absorbs floating-point error before truncation so that exact
// results such as 255*(255/255)^2 do not land on 254.
const truncEpsilon = 1e-9

// saturate rounds v to the nearest integer and clamps it to [0,255].
func saturate(v float64) byte {
	r := math.Round(v)
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return byte(r)
}

// truncate drops the fractional part of v and clamps it to [0,255].
func truncate(v float64) byte {
	f := math.Floor(v + truncEpsilon)
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return byte(f)
}

func makeLUT(fn func(v float64) byte) *lut {
	var t lut
	for i := range t {
		t[i] = fn(float64(i))
	}
	return &t
}

// mapSamples applies t to every color sample of b; alpha is copied as is.
func mapSamples(b *raster.Buffer, t *lut) (*raster.Buffer, error) {
	pix := b.Bytes()
	alpha := b.HasAlpha()
	for i, v := range pix {
		if alpha && i%4 == 3 {
			continue
		}
		pix[i] = t[v]
	}
	return raster.New(b.Width(), b.Height(), b.Channels(), pix)
}

// Contrast scales every sample by Gain and adds Offset, saturating the result.
func Contrast(b *raster.Buffer, p ContrastParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return mapSamples(b, makeLUT(func(v float64) byte {
		return saturate(p.Gain*v + p.Offset)
	}))
}

// Brightness applies contrast*in + (brightness-128), saturating the result.
func Brightness(b *raster.Buffer, p BrightnessParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	beta := p.Brightness - 128
	return mapSamples(b, makeLUT(func(v float64) byte {
		return saturate(p.Contrast*v + beta)
	}))
}

var negativeLUT = makeLUT(func(v float64) byte { return 255 - byte(v) })

// Negative inverts every sample. Applying it twice yields the input.
func Negative(b *raster.Buffer) (*raster.Buffer, error) {
	return mapSamples(b, negativeLUT)
}

// GammaCorrect maps in to 255*(in/255)^gamma, truncated.
func GammaCorrect(b *raster.Buffer, p GammaParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return mapSamples(b, makeLUT(func(v float64) byte {
		return truncate(255 * math.Pow(v/255, p.Gamma))
	}))
}

// LogTransform maps in to c*ln(1+in), truncated, where c = 255/ln(1+max)
// and max is the largest color sample of b.
//
// An all-zero image has no defined scale and fails with a ValueError.
func LogTransform(b *raster.Buffer) (*raster.Buffer, error) {
	max := maxSample(b)
	if max == 0 {
		return nil, valueErrorf(OpLogTransform, "image maximum is 0, log scale is undefined")
	}
	c := 255 / math.Log1p(float64(max))
	return mapSamples(b, makeLUT(func(v float64) byte {
		return truncate(c * math.Log1p(v))
	}))
}

func maxSample(b *raster.Buffer) byte {
	var max byte
	alpha := b.HasAlpha()
	for i, v := range b.Bytes() {
		if alpha && i%4 == 3 {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max
}
