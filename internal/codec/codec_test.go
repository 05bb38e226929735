package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// createTestImage writes a uniform PNG into dir and returns its path.
func createTestImage(t *testing.T, dir string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "test-image.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := createTestImage(t, t.TempDir(), 40, 30, color.RGBA{255, 128, 64, 255})

	img, err := Loader{}.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 40, img.Buffer.Width())
	assert.Equal(t, 30, img.Buffer.Height())
	assert.Equal(t, 3, img.Buffer.Channels())
	assert.Equal(t, 40, img.SourceWidth)
	assert.Greater(t, img.FileSizeBytes, int64(0))

	px, err := img.Buffer.At(10, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 128, 64}, px)
}

func TestLoader_NormalizesToCanvas(t *testing.T) {
	path := createTestImage(t, t.TempDir(), 64, 20, color.RGBA{10, 20, 30, 255})

	img, err := Loader{Width: 32, Height: 32}.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 32, img.Buffer.Width())
	assert.Equal(t, 32, img.Buffer.Height())
	assert.Equal(t, 64, img.SourceWidth)
	assert.Equal(t, 20, img.SourceHeight)

	px, _ := img.Buffer.At(31, 31)
	assert.Equal(t, []byte{10, 20, 30}, px)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := Loader{}.Load(filepath.Join(t.TempDir(), "nope.png"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "want IOError, got %v", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_Malformed(t *testing.T) {
	_, err := Loader{}.DecodeBytes([]byte("definitely not an image"))
	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr), "want DecodeError, got %v", err)

	_, err = Loader{}.DecodeBytes(nil)
	assert.True(t, errors.As(err, &decErr))
}

func TestLoader_TooBig(t *testing.T) {
	path := createTestImage(t, t.TempDir(), 20, 20, color.White)
	_, err := Loader{MaxPixels: 100}.Load(path)
	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want imaging.Format
	}{
		{"out.png", imaging.PNG},
		{"out.JPG", imaging.JPEG},
		{"out.jpeg", imaging.JPEG},
		{"/tmp/x/out.bmp", imaging.BMP},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFromPath("out.gif")
	var encErr *EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	buf, err := raster.New(2, 2, 3, []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})
	require.NoError(t, err)

	for _, name := range []string{"out.png", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Saver{}.Save(buf, path))

			img, err := Loader{}.Load(path)
			require.NoError(t, err)
			assert.True(t, img.Buffer.Equal(buf), "lossless formats must round trip")
		})
	}

	t.Run("out.jpg", func(t *testing.T) {
		path := filepath.Join(dir, "out.jpg")
		require.NoError(t, Saver{JPEGQuality: 90}.Save(buf, path))
		img, err := Loader{}.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", img.Format)
		assert.True(t, img.Buffer.SameSize(buf))
	})
}

func TestSave_GrayscaleStaysGray(t *testing.T) {
	buf, err := raster.New(3, 1, 1, []byte{0, 127, 255})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "gray.png")
	require.NoError(t, Saver{}.Save(buf, path))

	img, err := Loader{}.Load(path)
	require.NoError(t, err)
	assert.True(t, img.Buffer.Equal(buf))
}

func TestSave_Errors(t *testing.T) {
	buf, _ := raster.Filled(2, 2, 0, 0, 0)

	err := Saver{}.Save(buf, filepath.Join(t.TempDir(), "out.xyz"))
	var encErr *EncodeError
	assert.True(t, errors.As(err, &encErr))

	err = Saver{}.Save(buf, filepath.Join(t.TempDir(), "missing-dir", "out.png"))
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestEncodePNG(t *testing.T) {
	buf, _ := raster.Filled(4, 4, 9, 8, 7, 200)
	data, err := Saver{}.EncodePNG(buf)
	require.NoError(t, err)

	m, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	back, err := raster.FromImage(m)
	require.NoError(t, err)
	assert.True(t, back.Equal(buf))
}
