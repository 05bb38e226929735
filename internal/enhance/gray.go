package enhance

import (
	"github.com/ironsheep/image-enhance/internal/raster"
)

// Grayscale converts b to BT.601 luma and widens the result back to three
// identical channels so it renders in a color view.
func Grayscale(b *raster.Buffer) (*raster.Buffer, error) {
	return b.LumaPlane().ToColorForDisplay(), nil
}

// BinaryThreshold sets every pixel whose luma is strictly greater than the
// threshold to white and every other pixel to black. A luma exactly equal
// to the threshold is black. The result has three identical channels.
func BinaryThreshold(b *raster.Buffer, p ThresholdParams) (*raster.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	t := byte(p.Threshold)
	plane := b.LumaPlane().Bytes()
	for i, v := range plane {
		if v > t {
			plane[i] = 255
		} else {
			plane[i] = 0
		}
	}
	out, err := raster.New(b.Width(), b.Height(), 1, plane)
	if err != nil {
		return nil, err
	}
	return out.ToColorForDisplay(), nil
}
