package inspect

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// createInMemoryImage creates a uniform buffer from an RGBA image.
func createInMemoryImage(t *testing.T, width, height int, c color.Color) *raster.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	b, err := raster.FromImage(img)
	require.NoError(t, err)
	return b
}

// createPatternImage creates a buffer with a different color in each quadrant.
func createPatternImage(t *testing.T, width, height int) *raster.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			case y < height/2:
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			default:
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	b, err := raster.FromImage(img)
	require.NoError(t, err)
	return b
}

func TestSampleColor(t *testing.T) {
	b := createInMemoryImage(t, 100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(b, 50, 50)
	require.NoError(t, err)

	assert.Equal(t, "#FF8040", result.Hex)
	assert.Equal(t, RGBColor{255, 128, 64}, result.RGB)
	assert.Equal(t, RGBAColor{255, 128, 64, 255}, result.RGBA)
	assert.Equal(t, 20, result.HSL.H)
	assert.Equal(t, 100, result.HSL.S)
	assert.Equal(t, 63, result.HSL.L)
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   color.RGBA
		wantHex string
		wantHSL HSLColor
	}{
		{"pure red", color.RGBA{255, 0, 0, 255}, "#FF0000", HSLColor{0, 100, 50}},
		{"pure green", color.RGBA{0, 255, 0, 255}, "#00FF00", HSLColor{120, 100, 50}},
		{"pure blue", color.RGBA{0, 0, 255, 255}, "#0000FF", HSLColor{240, 100, 50}},
		{"white", color.RGBA{255, 255, 255, 255}, "#FFFFFF", HSLColor{0, 0, 100}},
		{"black", color.RGBA{0, 0, 0, 255}, "#000000", HSLColor{0, 0, 0}},
		{"gray", color.RGBA{128, 128, 128, 255}, "#808080", HSLColor{0, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := createInMemoryImage(t, 10, 10, tt.color)
			result, err := SampleColor(b, 5, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHex, result.Hex)
			assert.Equal(t, tt.wantHSL, result.HSL)
		})
	}
}

func TestSampleColor_GrayAndAlpha(t *testing.T) {
	g, err := raster.New(1, 1, 1, []byte{200})
	require.NoError(t, err)
	result, err := SampleColor(g, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, RGBAColor{200, 200, 200, 255}, result.RGBA)
	assert.Equal(t, "#C8C8C8", result.Hex)

	a, err := raster.New(1, 1, 4, []byte{10, 20, 30, 40})
	require.NoError(t, err)
	result, err = SampleColor(a, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, RGBAColor{10, 20, 30, 40}, result.RGBA)
	assert.Equal(t, "#0A141E", result.Hex, "hex excludes alpha")
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	b := createInMemoryImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(b, tt.x, tt.y)
			assert.Error(t, err)
		})
	}

	for _, p := range [][2]int{{0, 0}, {99, 0}, {0, 99}, {99, 99}} {
		_, err := SampleColor(b, p[0], p[1])
		assert.NoError(t, err, "edge coordinate %v", p)
	}
}

func TestSampleColorsMulti(t *testing.T) {
	b := createPatternImage(t, 100, 100)

	points := []LabeledPoint{
		{X: 25, Y: 25, Label: "red"},
		{X: 75, Y: 25, Label: "green"},
		{X: 25, Y: 75, Label: "blue"},
		{X: 75, Y: 75, Label: "white"},
	}

	results, err := SampleColorsMulti(b, points)
	require.NoError(t, err)
	require.Len(t, results, 4)

	expectedHex := []string{"#FF0000", "#00FF00", "#0000FF", "#FFFFFF"}
	for i, sample := range results {
		assert.Equal(t, points[i].Label, sample.Label)
		assert.Equal(t, expectedHex[i], sample.Color.Hex, sample.Label)
	}

	_, err = SampleColorsMulti(b, []LabeledPoint{{X: 50, Y: 50}, {X: 200, Y: 50}})
	assert.Error(t, err)
}

func TestDominantColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 80 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255}) // 80% red
			} else {
				img.Set(x, y, color.RGBA{0, 255, 0, 255}) // 20% green
			}
		}
	}
	b, err := raster.FromImage(img)
	require.NoError(t, err)

	colors, err := DominantColors(b, 5, nil)
	require.NoError(t, err)
	require.Len(t, colors, 2)

	// 255 quantizes to 240.
	assert.Equal(t, "#F00000", colors[0].Hex)
	assert.InDelta(t, 80, colors[0].Percentage, 1e-9)
	assert.Equal(t, "#00F000", colors[1].Hex)
	assert.InDelta(t, 20, colors[1].Percentage, 1e-9)
}

func TestDominantColors_WithRegion(t *testing.T) {
	b := createPatternImage(t, 100, 100)

	colors, err := DominantColors(b, 5, &Region{X1: 0, Y1: 0, X2: 50, Y2: 50})
	require.NoError(t, err)
	require.Len(t, colors, 1)
	assert.Equal(t, "#F00000", colors[0].Hex)
	assert.Equal(t, 100.0, colors[0].Percentage)

	_, err = DominantColors(b, 5, &Region{X1: 0, Y1: 0, X2: 150, Y2: 50})
	assert.Error(t, err)
}

func TestDominantColors_CountLimitAndTies(t *testing.T) {
	b := createPatternImage(t, 10, 10)

	colors, err := DominantColors(b, 2, nil)
	require.NoError(t, err)
	require.Len(t, colors, 2)
	// Four quadrants of 25% each: ordered by hex.
	assert.Equal(t, "#0000F0", colors[0].Hex)
	assert.Equal(t, "#00F000", colors[1].Hex)

	_, err = DominantColors(b, 0, nil)
	assert.Error(t, err)
}
