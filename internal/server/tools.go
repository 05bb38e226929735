package server

import (
	"github.com/samber/lo"

	"github.com/ironsheep/image-enhance/internal/enhance"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var noArgs = map[string]interface{}{
	"type":       "object",
	"properties": map[string]interface{}{},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	opNames := lo.Map(enhance.Ops(), func(op enhance.Op, _ int) string { return string(op) })

	return []Tool{
		// Session lifecycle
		{
			Name:        "image_load",
			Description: "Load an image file as the working image. The image is normalized to the configured canvas and becomes both the original and the current image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_apply",
			Description: "Apply an enhancement operation to the current image and return the result as base64-encoded PNG. Operations chain: each one works on the output of the previous one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operation": map[string]interface{}{
						"type":        "string",
						"enum":        opNames,
						"description": "Operation to apply. See image_operations for parameters and defaults.",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Optional parameter overrides for the operation; missing fields keep their defaults",
					},
					"render": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the resulting image. Default true",
						"default":     true,
					},
				},
				"required": []string{"operation"},
			},
		},
		{
			Name:        "image_restore",
			Description: "Discard every applied operation and return to the image as loaded.",
			InputSchema: noArgs,
		},
		{
			Name:        "image_save",
			Description: "Save the current image. The format is chosen from the extension: .png, .jpg, .jpeg or .bmp.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the destination file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Session inspection
		{
			Name:        "image_state",
			Description: "Report the session state (empty, loaded, modified), the current size and the operations applied since loading.",
			InputSchema: noArgs,
		},
		{
			Name:        "image_current",
			Description: "Return the current image as base64-encoded PNG. A region or named quadrant zooms into part of it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region to render (x2, y2 exclusive)",
					},
					"quadrant": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Optional named region to render",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size), at most 8. Default 1.0",
						"default":     1.0,
					},
				},
			},
		},
		{
			Name:        "image_compare",
			Description: "Compare the current image with the original: share of changed pixels, mean color difference and mean CIE76 distance.",
			InputSchema: noArgs,
		},
		{
			Name:        "image_operations",
			Description: "List the available enhancement operations with their default parameters.",
			InputSchema: noArgs,
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value of the current image at a pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Sample colors of the current image at multiple points in one call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Points to sample",
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Get the most common colors of the current image, or of a region of it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region to analyze (x2, y2 exclusive)",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
