// Package server implements an MCP (Model Context Protocol) tool server that
// drives an image enhancement session.
//
// The server plays the part of the user interface: it loads an image file
// into the session, applies enhancement operations by name, renders the
// current image back to the client, restores the original and saves the
// result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never corrupt the response stream.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session lifecycle:
//   - image_load: Load a file as original and current image
//   - image_apply: Apply an operation to the current image
//   - image_restore: Return to the original image
//   - image_save: Save the current image (.png, .jpg, .bmp)
//
// Session inspection:
//   - image_state: Lifecycle state and applied operations
//   - image_current: Current image, or a zoomed region, as base64 PNG
//   - image_operations: Operations and their default parameters
//   - image_compare: Difference between the original and current image
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - image_sample_colors_multi: Sample multiple points
//   - image_dominant_colors: Extract color palette
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A failed tool leaves the session as it was.
//
// # Usage
//
//	srv := server.New(server.Options{Defaults: enhance.DefaultParams()})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
