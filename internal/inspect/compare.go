package inspect

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// DiffThreshold is the mean per-channel difference above which a pixel
// counts as changed.
const DiffThreshold = 10

// CompareResult summarizes how much two equally sized buffers differ.
type CompareResult struct {
	SimilarityScore  float64 `json:"similarity_score"` // share of unchanged pixels, 0-1
	PixelsDifferent  int     `json:"pixels_different"`
	TotalPixels      int     `json:"total_pixels"`
	AverageColorDiff float64 `json:"average_color_diff"` // mean per-channel difference, 0-255
	AverageDeltaE    float64 `json:"average_delta_e"`    // mean CIE76 distance in Lab
	Identical        bool    `json:"identical"`
}

// Compare measures the difference between a and b pixel by pixel. Both are
// compared as RGB: grayscale buffers are widened and alpha is ignored.
func Compare(a, b *raster.Buffer) (*CompareResult, error) {
	if a == nil || b == nil {
		return nil, &raster.ShapeError{Op: "compare", Detail: "nil buffer"}
	}
	if !a.SameSize(b) {
		return nil, &raster.ShapeError{Op: "compare", Detail: "buffers differ in size: " + a.String() + " vs " + b.String()}
	}

	pa, ca := rgbSamples(a)
	pb, cb := rgbSamples(b)
	total := a.Width() * a.Height()

	different := 0
	var colorDiff, deltaE float64
	for i := 0; i < total; i++ {
		x, y := pa[i*ca:i*ca+3], pb[i*cb:i*cb+3]
		diff := float64(absDiff(x[0], y[0])+absDiff(x[1], y[1])+absDiff(x[2], y[2])) / 3
		colorDiff += diff
		if diff > DiffThreshold {
			different++
		}
		if diff > 0 {
			deltaE += toColorful(x).DistanceLab(toColorful(y))
		}
	}

	return &CompareResult{
		SimilarityScore:  math.Round((1-float64(different)/float64(total))*1000) / 1000,
		PixelsDifferent:  different,
		TotalPixels:      total,
		AverageColorDiff: math.Round(colorDiff/float64(total)*100) / 100,
		AverageDeltaE:    math.Round(deltaE/float64(total)*1000) / 1000,
		Identical:        colorDiff == 0,
	}, nil
}

// rgbSamples returns the samples of b with at least 3 channels per pixel.
func rgbSamples(b *raster.Buffer) ([]byte, int) {
	if b.Channels() == 1 {
		return b.ToColorForDisplay().Bytes(), 3
	}
	return b.Bytes(), b.Channels()
}

func toColorful(px []byte) colorful.Color {
	return colorful.Color{R: float64(px[0]) / 255, G: float64(px[1]) / 255, B: float64(px[2]) / 255}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
