package enhance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharpen_FlatImageUnchanged(t *testing.T) {
	in := filled(t, 8, 6, 90, 140, 210)
	out, err := Sharpen(in, DefaultParams().Sharpen)
	require.NoError(t, err)
	assert.True(t, out.Equal(in))
}

func TestSharpen_Peak(t *testing.T) {
	in := gray(t,
		[]byte{100, 100, 100},
		[]byte{100, 200, 100},
		[]byte{100, 100, 100},
	)
	out, err := Sharpen(in, DefaultParams().Sharpen)
	require.NoError(t, err)

	// Center: 5*200 - 4*100 = 600 -> 255. Direct neighbours:
	// 5*100 - 200 - 3*100 = 0. Corners see no change.
	assert.Equal(t, []byte{
		100, 0, 100,
		0, 255, 0,
		100, 0, 100,
	}, out.Bytes())
}

func TestSharpen_KeepsAlpha(t *testing.T) {
	in := filled(t, 3, 3, 10, 20, 30, 99)
	out, err := Sharpen(in, DefaultParams().Sharpen)
	require.NoError(t, err)
	assert.True(t, out.Equal(in))
}

func TestSharpen_BadKernel(t *testing.T) {
	_, err := Sharpen(gray(t, []byte{1}), SharpenParams{Kernel: []float64{1, 2, 3}})
	assert.True(t, errors.Is(err, ErrValue))
}

func TestKernelSigma(t *testing.T) {
	assert.InDelta(t, 2.6, KernelSigma(15), 1e-9)
	assert.InDelta(t, 0.8, KernelSigma(3), 1e-9)
}

func TestGaussianWeights(t *testing.T) {
	w := gaussianWeights(15, KernelSigma(15))
	require.Len(t, w, 15)

	var sum float64
	for i, v := range w {
		sum += v
		assert.InDelta(t, v, w[len(w)-1-i], 1e-12, "kernel must be symmetric")
	}
	assert.InDelta(t, 1, sum, 1e-9)
	assert.Greater(t, w[7], w[6])
}

func TestGaussianBlur_FlatImageUnchanged(t *testing.T) {
	in := filled(t, 20, 20, 33, 66, 99)
	out, err := GaussianBlur(in, DefaultParams().Blur)
	require.NoError(t, err)
	assert.True(t, out.Equal(in))
}

func TestGaussianBlur_SmoothsStep(t *testing.T) {
	row := make([]byte, 30)
	for x := 15; x < 30; x++ {
		row[x] = 255
	}
	rows := make([][]byte, 5)
	for i := range rows {
		rows[i] = row
	}
	out, err := GaussianBlur(gray(t, rows...), DefaultParams().Blur)
	require.NoError(t, err)

	got := out.Bytes()[:30]
	assert.Equal(t, byte(0), got[0], "far left stays black")
	assert.Equal(t, byte(255), got[29], "far right stays white")
	for x := 1; x < 30; x++ {
		assert.LessOrEqual(t, got[x-1], got[x], "blurred step must stay monotonic at %d", x)
	}
	assert.Greater(t, got[14], byte(0))
	assert.Less(t, got[15], byte(255))
	// The step is symmetric around 14.5.
	assert.InDelta(t, 255, float64(got[14])+float64(got[15]), 1)
}

func TestGaussianBlur_PreservesMass(t *testing.T) {
	in := noisy(t, 40, 40, 1, 7)
	out, err := GaussianBlur(in, BlurParams{KernelSize: 5, Sigma: 1})
	require.NoError(t, err)

	mean := func(b []byte) float64 {
		var s float64
		for _, v := range b {
			s += float64(v)
		}
		return s / float64(len(b))
	}
	assert.InDelta(t, mean(in.Bytes()), mean(out.Bytes()), 3)
	assert.Less(t, variance(out.Bytes()), variance(in.Bytes()))
}

func TestGaussianBlur_EvenKernel(t *testing.T) {
	_, err := GaussianBlur(gray(t, []byte{1}), BlurParams{KernelSize: 4})
	assert.True(t, errors.Is(err, ErrValue))
}

func variance(b []byte) float64 {
	var s, s2 float64
	for _, v := range b {
		f := float64(v)
		s += f
		s2 += f * f
	}
	n := float64(len(b))
	m := s / n
	return math.Max(s2/n-m*m, 0)
}
