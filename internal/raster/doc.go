// Package raster provides the dense pixel container shared by every stage of
// the enhancement pipeline.
//
// A Buffer holds 8-bit samples in a flat, row-major, interleaved layout:
// the sample for channel c of pixel (x, y) lives at index
// (y*width+x)*channels + c. Supported channel counts are:
//   - 1: grayscale
//   - 3: RGB
//   - 4: RGBA (non-premultiplied alpha)
//
// # Immutability
//
// Buffers are values in all but name. Constructors copy the samples they are
// given and accessors hand out copies, so a Buffer can be shared freely
// between the session, the engine and the front end without locking.
// Operations that change shape or channel count return a new Buffer.
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X increases rightward, Y increases downward.
package raster
