package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// DefaultJPEGQuality is used when Saver.JPEGQuality is not set.
const DefaultJPEGQuality = 95

// ErrUnsupportedFormat is wrapped by EncodeError for destinations whose
// extension is not .png, .jpg, .jpeg or .bmp.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Saver encodes raster buffers.
type Saver struct {
	// JPEGQuality ranges from 1 to 100; 0 selects DefaultJPEGQuality.
	JPEGQuality int
}

// FormatFromPath infers the output format from the destination extension.
func FormatFromPath(path string) (imaging.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imaging.PNG, nil
	case ".jpg", ".jpeg":
		return imaging.JPEG, nil
	case ".bmp":
		return imaging.BMP, nil
	}
	return 0, &EncodeError{
		Format: strings.TrimPrefix(filepath.Ext(path), "."),
		Err:    fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path)),
	}
}

// Encode writes b to w in the given format.
//
// JPEG and BMP have no alpha channel; 4-channel buffers are flattened by the
// encoder.
func (s Saver) Encode(w io.Writer, b *raster.Buffer, format imaging.Format) error {
	if b == nil {
		return &EncodeError{Format: format.String(), Err: errors.New("nil buffer")}
	}

	quality := s.JPEGQuality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	err := imaging.Encode(w, b.Image(), format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(png.DefaultCompression),
	)
	if err != nil {
		return &EncodeError{Format: format.String(), Err: err}
	}
	return nil
}

// EncodePNG returns b encoded as PNG.
func (s Saver) EncodePNG(b *raster.Buffer) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf, b, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes b into the file at path, choosing the format from the
// extension. The file is written only after encoding succeeds.
//
// # Errors
//
//   - *EncodeError for unsupported extensions or encoder failures
//   - *IOError if the file cannot be written
func (s Saver) Save(b *raster.Buffer, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf, b, format); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
