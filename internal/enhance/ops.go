package enhance

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ironsheep/image-enhance/internal/raster"
)

// Op names an enhancement operation.
type Op string

const (
	OpContrast        Op = "contrast"
	OpSharpen         Op = "sharpen"
	OpDenoise         Op = "denoise"
	OpBrightness      Op = "brightness"
	OpBinaryThreshold Op = "binaryThreshold"
	OpNegative        Op = "negative"
	OpGammaCorrect    Op = "gammaCorrect"
	OpLogTransform    Op = "logTransform"
	OpGrayscale       Op = "grayscale"
	OpBlur            Op = "blur"
	OpEdgeDetect      Op = "edgeDetect"
)

// Func is the common shape of every operation.
type Func func(b *raster.Buffer, p Params) (*raster.Buffer, error)

// Info describes a registered operation.
type Info struct {
	Op          Op     `json:"name"`
	Description string `json:"description"`
	// Widens is true for operations whose result is computed on a single
	// luma plane and widened to 3 channels for display.
	Widens bool `json:"widens"`
	fn     Func
}

var registry = []Info{
	{Op: OpContrast, Description: "Linear contrast stretch: gain*in + offset, saturated.",
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return Contrast(b, p.Contrast) }},
	{Op: OpSharpen, Description: "3x3 sharpening convolution with replicated borders.",
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return Sharpen(b, p.Sharpen) }},
	{Op: OpDenoise, Description: "Non-local means denoising.",
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return Denoise(b, p.Denoise) }},
	{Op: OpBrightness, Description: "Brightness/contrast adjustment centred on 128.",
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return Brightness(b, p.Brightness) }},
	{Op: OpBinaryThreshold, Description: "Luma threshold to a black and white image.", Widens: true,
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return BinaryThreshold(b, p.Threshold) }},
	{Op: OpNegative, Description: "Photographic negative: 255 - in.",
		fn: func(b *raster.Buffer, _ Params) (*raster.Buffer, error) { return Negative(b) }},
	{Op: OpGammaCorrect, Description: "Power-law tone mapping: 255*(in/255)^gamma.",
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return GammaCorrect(b, p.Gamma) }},
	{Op: OpLogTransform, Description: "Logarithmic tone mapping scaled to the image maximum.",
		fn: func(b *raster.Buffer, _ Params) (*raster.Buffer, error) { return LogTransform(b) }},
	{Op: OpGrayscale, Description: "BT.601 luma conversion.", Widens: true,
		fn: func(b *raster.Buffer, _ Params) (*raster.Buffer, error) { return Grayscale(b) }},
	{Op: OpBlur, Description: "Separable Gaussian blur with replicated borders.",
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return GaussianBlur(b, p.Blur) }},
	{Op: OpEdgeDetect, Description: "Canny-style binary edge map.", Widens: true,
		fn: func(b *raster.Buffer, p Params) (*raster.Buffer, error) { return EdgeDetect(b, p.Edge) }},
}

// Ops returns every operation in registration order.
func Ops() []Op {
	return lo.Map(registry, func(info Info, _ int) Op { return info.Op })
}

// Infos returns the descriptions of every operation.
func Infos() []Info {
	return append([]Info(nil), registry...)
}

// ParseOp resolves an operation name.
func ParseOp(name string) (Op, error) {
	info, ok := lo.Find(registry, func(info Info) bool { return string(info.Op) == name })
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
	return info.Op, nil
}

// Lookup returns the registry entry of op.
func Lookup(op Op) (Info, bool) {
	return lo.Find(registry, func(info Info) bool { return info.Op == op })
}

// Apply validates the parameters of op and runs it on b.
func Apply(op Op, b *raster.Buffer, p Params) (*raster.Buffer, error) {
	info, ok := Lookup(op)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	if b == nil {
		return nil, &raster.ShapeError{Op: string(op), Detail: "nil buffer"}
	}
	if err := p.Validate(op); err != nil {
		return nil, err
	}
	return info.fn(b, p)
}
