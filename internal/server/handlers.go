package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-enhance/internal/codec"
	"github.com/ironsheep/image-enhance/internal/enhance"
	"github.com/ironsheep/image-enhance/internal/inspect"
	"github.com/ironsheep/image-enhance/internal/raster"
	"github.com/ironsheep/image-enhance/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A failed tool never changes the session.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).WithField("tool", params.Name).Info("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session lifecycle
	case "image_load":
		return s.handleImageLoad(args)
	case "image_apply":
		return s.handleImageApply(args)
	case "image_restore":
		return s.handleImageRestore()
	case "image_save":
		return s.handleImageSave(args)

	// Session inspection
	case "image_state":
		return s.session.Snapshot(), nil
	case "image_current":
		return s.handleImageCurrent(args)
	case "image_operations":
		return s.handleImageOperations(), nil
	case "image_compare":
		return s.handleImageCompare()

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Absent arguments leave a untouched
// so that tools with only optional arguments can be called bare.
func decodeArgs(args json.RawMessage, a interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, a); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// ImageView describes the current image of the session, optionally with
// its pixels rendered as PNG.
type ImageView struct {
	State       session.State `json:"state"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Channels    int           `json:"channels"`
	ImageBase64 string        `json:"image_base64,omitempty"`
}

// render encodes b for display. Grayscale buffers are widened first.
func (s *Server) render(b *raster.Buffer) (string, error) {
	data, err := s.saver.EncodePNG(b.ToColorForDisplay())
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (s *Server) view(b *raster.Buffer, withImage bool) (*ImageView, error) {
	v := &ImageView{
		State:    s.session.State(),
		Width:    b.Width(),
		Height:   b.Height(),
		Channels: b.Channels(),
	}
	if withImage {
		img, err := s.render(b)
		if err != nil {
			return nil, err
		}
		v.ImageBase64 = img
	}
	return v, nil
}

// === Session Lifecycle Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

// LoadResult is returned by image_load.
type LoadResult struct {
	Path          string        `json:"path"`
	Format        string        `json:"format"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Channels      int           `json:"channels"`
	SourceWidth   int           `json:"source_width"`
	SourceHeight  int           `json:"source_height"`
	FileSizeBytes int64         `json:"file_size_bytes"`
	State         session.State `json:"state"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	img, err := s.loader.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if err := s.session.Load(img.Buffer); err != nil {
		return nil, err
	}

	return &LoadResult{
		Path:          a.Path,
		Format:        img.Format,
		Width:         img.Buffer.Width(),
		Height:        img.Buffer.Height(),
		Channels:      img.Buffer.Channels(),
		SourceWidth:   img.SourceWidth,
		SourceHeight:  img.SourceHeight,
		FileSizeBytes: img.FileSizeBytes,
		State:         s.session.State(),
	}, nil
}

type imageApplyArgs struct {
	Operation string          `json:"operation"`
	Params    json.RawMessage `json:"params"`
	// Render defaults to true.
	Render *bool `json:"render"`
}

// ApplyResult is returned by image_apply.
type ApplyResult struct {
	Operation enhance.Op `json:"operation"`
	ImageView
}

func (s *Server) handleImageApply(args json.RawMessage) (interface{}, error) {
	var a imageApplyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	op, err := enhance.ParseOp(a.Operation)
	if err != nil {
		return nil, err
	}

	params := s.session.Defaults()
	if err := params.Override(op, a.Params); err != nil {
		return nil, err
	}

	out, err := s.session.Apply(op, &params)
	if err != nil {
		return nil, err
	}

	v, err := s.view(out, a.Render == nil || *a.Render)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{Operation: op, ImageView: *v}, nil
}

func (s *Server) handleImageRestore() (interface{}, error) {
	if err := s.session.Restore(); err != nil {
		return nil, err
	}
	cur, err := s.session.Export()
	if err != nil {
		// Restoring an empty session is a no-op.
		return s.session.Snapshot(), nil
	}
	return s.view(cur, true)
}

type imageSaveArgs struct {
	Path string `json:"path"`
}

// SaveResult is returned by image_save.
type SaveResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	cur, err := s.session.Export()
	if err != nil {
		return nil, err
	}
	format, err := codec.FormatFromPath(a.Path)
	if err != nil {
		return nil, err
	}
	if err := s.saver.Save(cur, a.Path); err != nil {
		return nil, err
	}

	log.WithField("path", a.Path).Info("image saved")
	return &SaveResult{
		Path:   filepath.Clean(a.Path),
		Format: format.String(),
		Width:  cur.Width(),
		Height: cur.Height(),
	}, nil
}

// === Session Inspection Handlers ===

// MaxZoomScale is the largest magnification image_current accepts.
const MaxZoomScale = 8

// maxPixels is the largest image the server renders, matching the decode
// limit of its loader.
func (s *Server) maxPixels() int {
	if s.loader.MaxPixels > 0 {
		return s.loader.MaxPixels
	}
	return codec.DefaultMaxPixels
}

type imageCurrentArgs struct {
	Region *inspect.Region `json:"region"`
	// Quadrant names a region: top-left, top-right, bottom-left,
	// bottom-right, top-half, bottom-half, left-half, right-half, center.
	Quadrant string `json:"quadrant"`
	// Scale magnifies the result; 0 means 1. At most MaxZoomScale.
	Scale float64 `json:"scale"`
}

// handleImageCurrent renders the current image, or a zoomed part of it.
func (s *Server) handleImageCurrent(args json.RawMessage) (interface{}, error) {
	var a imageCurrentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cur, err := s.session.Export()
	if err != nil {
		return nil, err
	}

	if a.Quadrant != "" {
		r, err := raster.NamedRegion(cur.Width(), cur.Height(), a.Quadrant)
		if err != nil {
			return nil, err
		}
		a.Region = &inspect.Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
	}
	if a.Region != nil {
		cur, err = cur.Crop(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		if err != nil {
			return nil, err
		}
	}
	if a.Scale < 0 || a.Scale > MaxZoomScale {
		return nil, fmt.Errorf("scale must be within (0, %d], got %g", MaxZoomScale, a.Scale)
	}
	if a.Scale > 0 && a.Scale != 1 {
		w := int(float64(cur.Width())*a.Scale + 0.5)
		h := int(float64(cur.Height())*a.Scale + 0.5)
		if limit := s.maxPixels(); w*h > limit {
			return nil, fmt.Errorf("zoomed image would be %dx%d, more than %d pixels", w, h, limit)
		}
		cur, err = cur.Resize(w, h)
		if err != nil {
			return nil, err
		}
	}
	return s.view(cur, true)
}

// OperationInfo describes one operation and its default parameters.
type OperationInfo struct {
	enhance.Info
	Defaults interface{} `json:"defaults,omitempty"`
}

func (s *Server) handleImageOperations() []OperationInfo {
	defaults := s.session.Defaults()
	infos := enhance.Infos()
	out := make([]OperationInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, OperationInfo{Info: info, Defaults: defaults.Section(info.Op)})
	}
	return out
}

// handleImageCompare measures how far the current image has moved away
// from the original.
func (s *Server) handleImageCompare() (interface{}, error) {
	cur, err := s.session.Export()
	if err != nil {
		return nil, err
	}
	return inspect.Compare(s.session.Original(), cur)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cur, err := s.session.Export()
	if err != nil {
		return nil, err
	}
	return inspect.SampleColor(cur, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Points []inspect.LabeledPoint `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cur, err := s.session.Export()
	if err != nil {
		return nil, err
	}
	samples, err := inspect.SampleColorsMulti(cur, a.Points)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"samples": samples}, nil
}

type imageDominantColorsArgs struct {
	Count  int             `json:"count"`
	Region *inspect.Region `json:"region"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	a := imageDominantColorsArgs{Count: 5}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cur, err := s.session.Export()
	if err != nil {
		return nil, err
	}
	colors, err := inspect.DominantColors(cur, a.Count, a.Region)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"colors": colors}, nil
}
