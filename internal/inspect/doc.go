// Package inspect provides read-only analysis of raster buffers for front
// ends: color sampling at pixel coordinates and dominant color extraction.
//
// Colors are reported in several representations (hex, RGB, RGBA and HSL)
// so that callers can pick whichever suits their display. Grayscale
// buffers report R = G = B; buffers without alpha report A = 255.
package inspect
