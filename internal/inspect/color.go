package inspect

import (
	"fmt"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
// An alpha of 0 is fully transparent, 255 fully opaque.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"` // "#RRGGBB", alpha excluded
	RGB  RGBColor  `json:"rgb"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

// SampleColor returns the color of the pixel at (x, y).
//
// Coordinates are 0-based with the origin at the top-left corner. An error
// is returned when they fall outside the buffer.
func SampleColor(b *raster.Buffer, x, y int) (*ColorResult, error) {
	if b == nil {
		return nil, &raster.ShapeError{Op: "sample", Detail: "nil buffer"}
	}
	px, err := b.At(x, y)
	if err != nil {
		return nil, err
	}
	c := rgbaOf(px)
	return newColorResult(c), nil
}

func rgbaOf(px []byte) RGBAColor {
	switch len(px) {
	case 1:
		return RGBAColor{R: px[0], G: px[0], B: px[0], A: 255}
	case 3:
		return RGBAColor{R: px[0], G: px[1], B: px[2], A: 255}
	}
	return RGBAColor{R: px[0], G: px[1], B: px[2], A: px[3]}
}

func newColorResult(c RGBAColor) *ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return &ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: c,
		HSL:  hslOf(cf),
	}
}

// hslOf converts to HSL, rounding to whole degrees and percent.
func hslOf(c colorful.Color) HSLColor {
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	hue := int(math.Round(h)) % 360
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// LabeledPoint is a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// LabeledColorResult combines a color sample with its location and label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// SampleColorsMulti samples every point in order. Any out-of-bounds point
// fails the whole call; no partial results are returned.
func SampleColorsMulti(b *raster.Buffer, points []LabeledPoint) ([]LabeledColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))
	for _, p := range points {
		c, err := SampleColor(b, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{Label: p.Label, X: p.X, Y: p.Y, Color: *c})
	}
	return results, nil
}

// Region is a rectangle with an inclusive top-left and exclusive
// bottom-right corner.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ColorFrequency is a quantized color and the share of pixels it covers.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"` // 0-100
	RGB        RGBColor `json:"rgb"`
}

// DominantColors returns up to count of the most frequent colors in b, or
// in region when it is not nil, sorted by frequency (most common first).
//
// Components are quantized to multiples of 16 before counting, so colors
// such as #F0F0F0 and #FAFAFA fall into the same bucket. Ties are broken by
// hex value to keep the output stable.
func DominantColors(b *raster.Buffer, count int, region *Region) ([]ColorFrequency, error) {
	if b == nil {
		return nil, &raster.ShapeError{Op: "dominant colors", Detail: "nil buffer"}
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	r := Region{X2: b.Width(), Y2: b.Height()}
	if region != nil {
		r = *region
		if r.X1 < 0 || r.Y1 < 0 || r.X2 > b.Width() || r.Y2 > b.Height() || r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside %dx%d image",
				r.X1, r.Y1, r.X2, r.Y2, b.Width(), b.Height())
		}
	}

	pix := b.Bytes()
	ch := b.Channels()
	counts := make(map[RGBColor]int)
	total := 0
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			i := (y*b.Width() + x) * ch
			c := rgbaOf(pix[i : i+ch])
			counts[RGBColor{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
