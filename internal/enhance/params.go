package enhance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Params holds the tunable constants of every operation. The zero value is
// not useful; start from DefaultParams.
type Params struct {
	Contrast   ContrastParams   `toml:"contrast" json:"contrast"`
	Sharpen    SharpenParams    `toml:"sharpen" json:"sharpen"`
	Denoise    DenoiseParams    `toml:"denoise" json:"denoise"`
	Brightness BrightnessParams `toml:"brightness" json:"brightness"`
	Threshold  ThresholdParams  `toml:"binaryThreshold" json:"binaryThreshold"`
	Gamma      GammaParams      `toml:"gammaCorrect" json:"gammaCorrect"`
	Blur       BlurParams       `toml:"blur" json:"blur"`
	Edge       EdgeParams       `toml:"edgeDetect" json:"edgeDetect"`
}

// ContrastParams configures the linear contrast stretch.
type ContrastParams struct {
	Gain   float64 `toml:"gain" json:"gain"`
	Offset float64 `toml:"offset" json:"offset"`
}

// SharpenParams holds the row-major 3x3 convolution kernel.
type SharpenParams struct {
	Kernel []float64 `toml:"kernel" json:"kernel"`
}

// DenoiseParams configures non-local means denoising.
type DenoiseParams struct {
	// Luminance is the filter strength applied to luma differences.
	Luminance float64 `toml:"luminance" json:"luminance"`
	// Color is the filter strength applied to chroma differences. Ignored
	// for grayscale input.
	Color float64 `toml:"color" json:"color"`
	// TemplateSize is the odd side length of the compared patches.
	TemplateSize int `toml:"template_size" json:"template_size"`
	// SearchSize is the odd side length of the search window.
	SearchSize int `toml:"search_size" json:"search_size"`
}

// BrightnessParams configures the combined brightness/contrast adjustment.
// Brightness is centred on 128: values above brighten, values below darken.
type BrightnessParams struct {
	Brightness float64 `toml:"brightness" json:"brightness"`
	Contrast   float64 `toml:"contrast" json:"contrast"`
}

// ThresholdParams configures binary thresholding.
type ThresholdParams struct {
	Threshold int `toml:"threshold" json:"threshold"`
}

// GammaParams configures the power-law transform.
type GammaParams struct {
	Gamma float64 `toml:"gamma" json:"gamma"`
}

// BlurParams configures the Gaussian blur. A Sigma of zero or less is
// derived from KernelSize.
type BlurParams struct {
	KernelSize int     `toml:"kernel_size" json:"kernel_size"`
	Sigma      float64 `toml:"sigma" json:"sigma"`
}

// EdgeParams holds the hysteresis thresholds, in gradient magnitude units.
type EdgeParams struct {
	Low  float64 `toml:"low" json:"low"`
	High float64 `toml:"high" json:"high"`
}

// DefaultParams returns the documented default constants.
func DefaultParams() Params {
	return Params{
		Contrast: ContrastParams{Gain: 1.5, Offset: 0},
		Sharpen: SharpenParams{Kernel: []float64{
			0, -1, 0,
			-1, 5, -1,
			0, -1, 0,
		}},
		Denoise:    DenoiseParams{Luminance: 10, Color: 10, TemplateSize: 7, SearchSize: 21},
		Brightness: BrightnessParams{Brightness: 64, Contrast: 1.3},
		Threshold:  ThresholdParams{Threshold: 127},
		Gamma:      GammaParams{Gamma: 2.0},
		Blur:       BlurParams{KernelSize: 15},
		Edge:       EdgeParams{Low: 100, High: 200},
	}
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	out := p
	out.Sharpen.Kernel = append([]float64(nil), p.Sharpen.Kernel...)
	return out
}

// Section returns a pointer to the parameter struct used by op, or nil when
// op takes no parameters.
func (p *Params) Section(op Op) interface{} {
	switch op {
	case OpContrast:
		return &p.Contrast
	case OpSharpen:
		return &p.Sharpen
	case OpDenoise:
		return &p.Denoise
	case OpBrightness:
		return &p.Brightness
	case OpBinaryThreshold:
		return &p.Threshold
	case OpGammaCorrect:
		return &p.Gamma
	case OpBlur:
		return &p.Blur
	case OpEdgeDetect:
		return &p.Edge
	}
	return nil
}

// Override patches the section of op with the fields present in raw JSON.
// Fields absent from raw keep their current value; unknown fields are
// rejected. p is left untouched when the patch fails.
func (p *Params) Override(op Op, raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	patched := p.Clone()
	section := patched.Section(op)
	if section == nil {
		return valueErrorf(op, "operation takes no parameters")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(section); err != nil {
		return valueErrorf(op, "invalid parameters: %v", err)
	}
	if dec.More() {
		return valueErrorf(op, "invalid parameters: trailing data after object")
	}
	*p = patched
	return nil
}

type validator interface {
	validate() error
}

// Validate checks the section of op.
func (p *Params) Validate(op Op) error {
	if v, ok := p.Section(op).(validator); ok {
		return v.validate()
	}
	return nil
}

func (p ContrastParams) validate() error { return nil }

func (p SharpenParams) validate() error {
	if len(p.Kernel) != 9 {
		return valueErrorf(OpSharpen, "kernel must have 9 coefficients, got %d", len(p.Kernel))
	}
	return nil
}

func (p DenoiseParams) validate() error {
	if p.Luminance <= 0 || p.Color <= 0 {
		return valueErrorf(OpDenoise, "strengths must be positive, got luminance=%g color=%g", p.Luminance, p.Color)
	}
	if err := checkOddSize(OpDenoise, "template_size", p.TemplateSize); err != nil {
		return err
	}
	return checkOddSize(OpDenoise, "search_size", p.SearchSize)
}

func (p BrightnessParams) validate() error {
	if p.Contrast < 0 {
		return valueErrorf(OpBrightness, "contrast must not be negative, got %g", p.Contrast)
	}
	return nil
}

func (p ThresholdParams) validate() error {
	if p.Threshold < 0 || p.Threshold > 255 {
		return valueErrorf(OpBinaryThreshold, "threshold must be within 0..255, got %d", p.Threshold)
	}
	return nil
}

func (p GammaParams) validate() error {
	if p.Gamma <= 0 {
		return valueErrorf(OpGammaCorrect, "gamma must be positive, got %g", p.Gamma)
	}
	return nil
}

func (p BlurParams) validate() error {
	return checkOddSize(OpBlur, "kernel_size", p.KernelSize)
}

func (p EdgeParams) validate() error {
	if p.Low < 0 || p.High < 0 || p.Low > p.High {
		return valueErrorf(OpEdgeDetect, "need 0 <= low <= high, got low=%g high=%g", p.Low, p.High)
	}
	return nil
}

func checkOddSize(op Op, name string, v int) error {
	if v <= 0 || v%2 == 0 {
		return valueErrorf(op, "%s must be a positive odd number, got %d", name, v)
	}
	return nil
}

func (p Params) String() string {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%#v", p)
	}
	return string(b)
}
