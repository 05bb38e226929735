package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WEBP format decoder

	"github.com/ironsheep/image-enhance/internal/raster"
)

// DefaultMaxPixels limits decoded images to 30 megapixels.
const DefaultMaxPixels = 30000000

// Loader decodes encoded images into raster buffers.
//
// When Width and Height are both positive, every decoded image is resized
// to exactly Width x Height so that all operations work on a fixed canvas.
// A zero Loader keeps the decoded size and applies DefaultMaxPixels.
type Loader struct {
	Width     int
	Height    int
	MaxPixels int
}

// Image is a decoded buffer together with metadata about its source.
type Image struct {
	Buffer *raster.Buffer

	// Format is the detected format name: "png", "jpeg", "bmp", "gif",
	// "tiff" or "webp". Detection is based on file contents.
	Format string `json:"format"`

	// SourceWidth and SourceHeight are the dimensions before normalization.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	// FileSizeBytes is the size of the encoded input. For streams it is the
	// number of bytes consumed by the decoder.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Decode reads an encoded image from r.
//
// The format is sniffed first so that oversized images are rejected before
// their pixels are allocated; EXIF orientation is applied to JPEG input.
//
// # Errors
//
//   - *DecodeError if the stream is malformed, in an unsupported format or
//     larger than MaxPixels
func (l Loader) Decode(r io.Reader) (*Image, error) {
	return l.decode("stream", r)
}

// Load opens and decodes the image file at path.
//
// # Errors
//
//   - *IOError if the file cannot be opened or stat'd
//   - *DecodeError if the contents cannot be decoded
func (l Loader) Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := l.decode(path, f)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	img.FileSizeBytes = stat.Size()
	return img, nil
}

func (l Loader) decode(source string, r io.Reader) (*Image, error) {
	// Sniff the header first, keeping the consumed bytes for the full decode.
	var head bytes.Buffer
	counter := &countingReader{r: r}
	cfg, format, err := image.DecodeConfig(io.TeeReader(counter, &head))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}

	maxPixels := l.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("image is too big: %dx%d", cfg.Width, cfg.Height)}
	}

	m, err := imaging.Decode(io.MultiReader(&head, counter), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}

	buf, err := raster.FromImage(m)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}

	img := &Image{
		Buffer:        buf,
		Format:        format,
		SourceWidth:   buf.Width(),
		SourceHeight:  buf.Height(),
		FileSizeBytes: counter.n,
	}

	if l.Width > 0 && l.Height > 0 {
		img.Buffer, err = buf.Resize(l.Width, l.Height)
		if err != nil {
			return nil, &DecodeError{Source: source, Err: err}
		}
	}
	return img, nil
}

// DecodeBytes is a convenience wrapper around Decode for in-memory data.
func (l Loader) DecodeBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Source: "bytes", Err: errors.New("empty input")}
	}
	img, err := l.decode("bytes", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img.FileSizeBytes = int64(len(data))
	return img, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
