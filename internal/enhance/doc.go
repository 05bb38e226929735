// Package enhance implements the pixel-level enhancement operations.
//
// Every operation is a pure function: it reads a raster.Buffer, never
// modifies it, and returns a newly allocated buffer. The caller is expected
// to pass a valid, non-empty buffer; guarding against "no image loaded" is
// the session's job.
//
// # Operations
//
//   - contrast: out = clamp(gain*in + offset)
//   - brightness: out = clamp(contrast*in + brightness - 128)
//   - negative: out = 255 - in
//   - gammaCorrect: out = 255 * (in/255)^gamma, truncated
//   - logTransform: out = c * ln(1+in) with c = 255/ln(1+max), truncated
//   - sharpen: 3x3 convolution, border replication
//   - blur: separable Gaussian, border replication
//   - denoise: non-local means with a clipped search window
//   - grayscale: BT.601 luma, widened to 3 channels
//   - binaryThreshold: luma > threshold -> 255, else 0, widened to 3 channels
//   - edgeDetect: Sobel gradient, non-maximum suppression and hysteresis,
//     widened to 3 channels
//
// Per-sample arithmetic always saturates to [0,255]; nothing wraps around.
// The alpha channel of 4-channel buffers is carried through unchanged by
// every operation that keeps the channel count.
//
// # Parameters
//
// Each operation reads its own section of Params. DefaultParams returns the
// documented defaults; Params.Override patches one section from JSON.
//
// # Errors
//
// Invalid parameters and degenerate numeric input (such as the log transform
// of an all-zero image) fail with a *ValueError. Shape problems surface as
// raster shape errors.
package enhance
