package raster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"shrink", 5, 4},
		{"enlarge", 40, 30},
		{"mixed", 30, 5},
	}

	for _, channels := range []int{1, 3} {
		px := []byte{90, 120, 200}[:channels]
		src, err := Filled(10, 8, px...)
		require.NoError(t, err)

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				out, err := src.Resize(tt.width, tt.height)
				require.NoError(t, err)
				assert.Equal(t, tt.width, out.Width())
				assert.Equal(t, tt.height, out.Height())
				assert.Equal(t, channels, out.Channels())

				// A uniform image stays uniform under any interpolation.
				want, _ := Filled(tt.width, tt.height, px...)
				assert.True(t, out.Equal(want))
			})
		}
	}
}

func TestResize_AreaAverage(t *testing.T) {
	// Left half black, right half white; halving the width averages pairs.
	src, err := New(4, 1, 1, []byte{0, 0, 255, 255})
	require.NoError(t, err)

	out, err := src.Resize(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 255}, out.Bytes())
}

func TestResize_SameSize(t *testing.T) {
	src, _ := New(2, 1, 1, []byte{1, 2})
	out, err := src.Resize(2, 1)
	require.NoError(t, err)
	assert.True(t, out.Equal(src))
}

func TestResize_InvalidTarget(t *testing.T) {
	src, _ := Filled(2, 2, 0)
	_, err := src.Resize(0, 10)
	assert.True(t, errors.Is(err, ErrShape))
}
