package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetToolDefinitions(t *testing.T) {
	expectedTools := []string{
		"image_load",
		"image_apply",
		"image_restore",
		"image_save",
		"image_state",
		"image_current",
		"image_operations",
		"image_compare",
		"image_sample_color",
		"image_sample_colors_multi",
		"image_dominant_colors",
	}

	names := make([]string, 0)
	for _, tool := range GetToolDefinitions() {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, expectedTools, names)

	// Every listed tool is dispatched.
	s := newTestServer()
	for _, name := range names {
		_, err := s.executeTool(name, nil)
		if err != nil {
			assert.NotContains(t, err.Error(), "unknown tool", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Name)
			assert.NotEmpty(t, tool.Description)
			require.NotNil(t, tool.InputSchema)
			assert.Equal(t, "object", tool.InputSchema["type"])
			assert.NotNil(t, tool.InputSchema["properties"])
		})
	}
}

func TestToolDefinitions_ApplyOperationEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "image_apply" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		op := props["operation"].(map[string]interface{})
		assert.Equal(t, []string{
			"contrast", "sharpen", "denoise", "brightness", "binaryThreshold", "negative",
			"gammaCorrect", "logTransform", "grayscale", "blur", "edgeDetect",
		}, op["enum"])
		assert.Equal(t, []string{"operation"}, tool.InputSchema["required"])
		return
	}
	t.Fatal("image_apply not defined")
}
