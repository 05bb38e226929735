package enhance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// filled creates a uniform buffer; the number of samples picks the channel count.
func filled(t *testing.T, width, height int, px ...byte) *raster.Buffer {
	t.Helper()
	b, err := raster.Filled(width, height, px...)
	require.NoError(t, err)
	return b
}

// gray creates a 1-channel buffer from rows of samples.
func gray(t *testing.T, rows ...[]byte) *raster.Buffer {
	t.Helper()
	var pix []byte
	for _, r := range rows {
		pix = append(pix, r...)
	}
	b, err := raster.New(len(rows[0]), len(rows), 1, pix)
	require.NoError(t, err)
	return b
}

// noisy creates a deterministic pseudo-random buffer.
func noisy(t *testing.T, width, height, channels int, seed int64) *raster.Buffer {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pix := make([]byte, width*height*channels)
	rng.Read(pix)
	b, err := raster.New(width, height, channels, pix)
	require.NoError(t, err)
	return b
}

// pixel returns the samples at (x, y).
func pixel(t *testing.T, b *raster.Buffer, x, y int) []byte {
	t.Helper()
	px, err := b.At(x, y)
	require.NoError(t, err)
	return px
}

// pixelOrNil returns the first pixel of b, passing err through.
func pixelOrNil(b *raster.Buffer, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return b.At(0, 0)
}

// filledFrom creates a buffer shaped like b holding pix.
func filledFrom(t *testing.T, b *raster.Buffer, pix []byte) *raster.Buffer {
	t.Helper()
	out, err := raster.New(b.Width(), b.Height(), b.Channels(), pix)
	require.NoError(t, err)
	return out
}
