package enhance

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// Denoise removes noise with non-local means.
//
// Every output pixel is a weighted average of the pixels q in a
// SearchSize x SearchSize window around it. The weight of q depends on how
// similar the TemplateSize x TemplateSize patch around q is to the patch
// around the output pixel:
//
//	w = exp(-(mean(dLuma²)/Luminance² + mean(dChroma²)/Color²))
//
// where chroma is each color channel minus luma. Grayscale images only use
// the luma term. Patch pixels outside the image are replicated from the
// border, and search candidates outside the image are skipped, so windows
// larger than the image are clipped rather than failing.
//
// Patch distances are computed one search offset at a time with an
// integral image, so the cost is O(width*height*SearchSize²) independent of
// TemplateSize.
func Denoise(b *raster.Buffer, p DenoiseParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	width, height, channels := b.Width(), b.Height(), b.Channels()
	colorChannels := channels
	if b.HasAlpha() {
		colorChannels = 3
	}
	pix := b.Bytes()
	n := width * height

	tr := p.TemplateSize / 2
	sr := p.SearchSize / 2
	pad := tr + sr

	luma := make([]float64, n)
	var chroma [][]float64
	if colorChannels == 1 {
		for i := 0; i < n; i++ {
			luma[i] = float64(pix[i])
		}
	} else {
		chroma = make([][]float64, 3)
		for c := range chroma {
			chroma[c] = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			s := pix[i*channels:]
			l := raster.LumaR*float64(s[0]) + raster.LumaG*float64(s[1]) + raster.LumaB*float64(s[2])
			luma[i] = l
			for c := 0; c < 3; c++ {
				chroma[c][i] = float64(s[c]) - l
			}
		}
	}

	g := newGuide(luma, chroma, width, height, pad)
	invL := 1 / (p.Luminance * p.Luminance)
	invC := 1 / (p.Color * p.Color)
	norm := 1 / float64(p.TemplateSize*p.TemplateSize)

	// The distance plane covers image coordinates -tr..width+tr-1.
	dw, dh := width+2*tr, height+2*tr
	dist := make([]float64, dw*dh)
	integral := make([]float64, (dw+1)*(dh+1))
	iw := dw + 1

	sums := make([]float64, n*colorChannels)
	weights := make([]float64, n)

	for oy := -sr; oy <= sr; oy++ {
		for ox := -sr; ox <= sr; ox++ {
			shift := oy*g.stride + ox

			parallel.Line(dh, func(start, end int) {
				for j := start; j < end; j++ {
					u := (j-tr+pad)*g.stride + pad - tr
					for i := 0; i < dw; i++ {
						dist[j*dw+i] = g.distance(u+i, u+i+shift, invL, invC)
					}
				}
			})

			// Integral image: prefix sums along rows, then down columns.
			parallel.Line(dh, func(start, end int) {
				for j := start; j < end; j++ {
					var run float64
					row := integral[(j+1)*iw:]
					for i := 0; i < dw; i++ {
						run += dist[j*dw+i]
						row[i+1] = run
					}
				}
			})
			parallel.Line(dw, func(start, end int) {
				for j := 1; j < dh; j++ {
					for i := start + 1; i <= end; i++ {
						integral[(j+1)*iw+i] += integral[j*iw+i]
					}
				}
			})

			parallel.Line(height, func(start, end int) {
				for y := start; y < end; y++ {
					qy := y + oy
					if qy < 0 || qy >= height {
						continue
					}
					for x := 0; x < width; x++ {
						qx := x + ox
						if qx < 0 || qx >= width {
							continue
						}
						// Patch around (x, y) spans distance-plane cells
						// x..x+2tr and y..y+2tr.
						x0, y0 := x, y
						x1, y1 := x+2*tr+1, y+2*tr+1
						ssd := integral[y1*iw+x1] - integral[y0*iw+x1] - integral[y1*iw+x0] + integral[y0*iw+x0]
						w := math.Exp(-math.Max(ssd*norm, 0))

						pi := y*width + x
						qi := qy*width + qx
						weights[pi] += w
						for c := 0; c < colorChannels; c++ {
							sums[pi*colorChannels+c] += w * float64(pix[qi*channels+c])
						}
					}
				}
			})
		}
	}

	out := make([]byte, len(pix))
	for i := 0; i < n; i++ {
		for c := 0; c < colorChannels; c++ {
			out[i*channels+c] = saturate(sums[i*colorChannels+c] / weights[i])
		}
		if colorChannels != channels {
			out[i*channels+3] = pix[i*channels+3]
		}
	}
	return raster.New(width, height, channels, out)
}

// guide holds the luma and chroma planes padded by border replication so
// that patch lookups never leave the slice.
type guide struct {
	stride int
	luma   []float64
	chroma [][]float64
}

func newGuide(luma []float64, chroma [][]float64, width, height, pad int) *guide {
	g := &guide{stride: width + 2*pad}
	g.luma = padPlane(luma, width, height, pad)
	for _, c := range chroma {
		g.chroma = append(g.chroma, padPlane(c, width, height, pad))
	}
	return g
}

// distance returns the normalized squared difference between two padded
// positions.
func (g *guide) distance(u, v int, invL, invC float64) float64 {
	d := g.luma[u] - g.luma[v]
	val := d * d * invL
	if len(g.chroma) > 0 {
		var dc float64
		for _, c := range g.chroma {
			e := c[u] - c[v]
			dc += e * e
		}
		val += dc / float64(len(g.chroma)) * invC
	}
	return val
}

func padPlane(src []float64, width, height, pad int) []float64 {
	pw, ph := width+2*pad, height+2*pad
	out := make([]float64, pw*ph)
	for y := 0; y < ph; y++ {
		sy := clamp(y-pad, 0, height-1)
		for x := 0; x < pw; x++ {
			out[y*pw+x] = src[sy*width+clamp(x-pad, 0, width-1)]
		}
	}
	return out
}
