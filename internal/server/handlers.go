package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/PoorRican/gui-agent-screenshot-tools/internal/imaging"
	"github.com/PoorRican/gui-agent-screenshot-tools/internal/logger"
	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// errInvalidArgs marks tool failures caused by the caller's arguments.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "screenshot_load", "coordinate_to_space").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// toolHandler executes one tool. args is never nil.
type toolHandler func(s *Server, args json.RawMessage) (interface{}, error)

// toolHandlers maps tool names to their implementation. Every entry has a
// matching definition in GetToolDefinitions.
var toolHandlers = map[string]toolHandler{
	// Coordinate Math
	"space_resize_metadata": (*Server).handleSpaceResizeMetadata,
	"coordinate_to_space":   (*Server).handleCoordinateToSpace,
	"coordinate_forward":    (*Server).handleCoordinateForward,
	"bbox_to_space":         (*Server).handleBBoxToSpace,
	"bbox_localize":         (*Server).handleBBoxLocalize,
	"bbox_absolutize":       (*Server).handleBBoxAbsolutize,

	// Screenshot Lifecycle
	"screenshot_load":   (*Server).handleScreenshotLoad,
	"screenshot_info":   (*Server).handleScreenshotInfo,
	"screenshot_resize": (*Server).handleScreenshotResize,
	"screenshot_evict":  (*Server).handleScreenshotEvict,
	"screenshot_clear":  (*Server).handleScreenshotClear,

	// Coordinate Mapping
	"screenshot_map_coordinate": (*Server).handleScreenshotMapCoordinate,

	// Region Operations
	"screenshot_crop":          (*Server).handleScreenshotCrop,
	"screenshot_crop_quadrant": (*Server).handleScreenshotCropQuadrant,

	// Color Operations
	"screenshot_sample_color":        (*Server).handleScreenshotSampleColor,
	"screenshot_sample_colors_multi": (*Server).handleScreenshotSampleColorsMulti,
	"screenshot_dominant_colors":     (*Server).handleScreenshotDominantColors,

	// Measurement Operations
	"screenshot_grid_overlay":     (*Server).handleScreenshotGridOverlay,
	"screenshot_measure_distance": (*Server).handleScreenshotMeasureDistance,
	"screenshot_check_alignment":  (*Server).handleScreenshotCheckAlignment,
	"screenshot_compare_regions":  (*Server).handleScreenshotCompareRegions,

	// OCR and Detection
	"screenshot_ocr":                 (*Server).handleScreenshotOCR,
	"screenshot_detect_text_regions": (*Server).handleScreenshotDetectTextRegions,
	"screenshot_detect_rectangles":   (*Server).handleScreenshotDetectRectangles,
	"screenshot_edge_detect":         (*Server).handleScreenshotEdgeDetect,
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Unknown tools and bad arguments return -32602; any other failure returns
// -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log := logger.FromContext(ctx).With(zap.String("tool", params.Name))

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn("tool execution failed", zap.Error(err))
		if isArgumentError(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	log.Debug("tool executed")

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the registered handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	handler, ok := toolHandlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	return handler(s, args)
}

func isArgumentError(err error) bool {
	return errors.Is(err, errInvalidArgs) ||
		errors.Is(err, screenspace.ErrInvalidDimensions) ||
		errors.Is(err, screenspace.ErrOutOfBounds) ||
		errors.Is(err, imaging.ErrUnknownHandle)
}

// decodeArgs unmarshals tool arguments into v.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// parseSpaceArg parses a "WxH" argument.
func parseSpaceArg(name, value string) (screenspace.Space, error) {
	if value == "" {
		return screenspace.Space{}, fmt.Errorf("%w: %s is required", errInvalidArgs, name)
	}
	space, err := screenspace.ParseSpace(value)
	if err != nil {
		return screenspace.Space{}, fmt.Errorf("%s: %w", name, err)
	}
	return space, nil
}

// parseModeArg parses a resize mode, falling back to the configured default.
func (s *Server) parseModeArg(value string) (screenspace.ResizeMode, error) {
	if value == "" {
		return s.cfg.DefaultMode(), nil
	}
	mode, err := screenspace.ParseResizeMode(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return mode, nil
}

// pointArgs is an (x, y) pair in a space named elsewhere in the arguments.
type pointArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p pointArgs) in(space screenspace.Space) (screenspace.Coordinate, error) {
	return screenspace.NewCoordinate(p.X, p.Y, space)
}

// boxArgs is a rectangle in a space named elsewhere in the arguments.
type boxArgs struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b boxArgs) in(space screenspace.Space) (screenspace.BBox, error) {
	return screenspace.NewBBox(b.X, b.Y, b.Width, b.Height, space)
}

// view is a stored screenshot together with the original it was derived from.
// For a screenshot that was loaded rather than derived both are the same.
type view struct {
	handle       string
	shot         *imaging.Screenshot
	originHandle string
	origin       *imaging.Screenshot
}

func (s *Server) view(handle string) (*view, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: handle is required", errInvalidArgs)
	}
	shot, err := s.store.Get(handle)
	if err != nil {
		return nil, err
	}
	originHandle, origin, err := s.store.Origin(handle)
	if err != nil {
		return nil, err
	}
	return &view{handle: handle, shot: shot, originHandle: originHandle, origin: origin}, nil
}

func (v *view) space() screenspace.Space { return v.shot.Space() }

func (v *view) derived() bool { return v.handle != v.originHandle }

// toOrigin maps a coordinate of the view into the original's space.
func (v *view) toOrigin(c screenspace.Coordinate) screenspace.Coordinate {
	meta := v.shot.ResizeMetadata()
	if !v.derived() || meta == nil {
		return c
	}
	return c.ToSpace(v.origin.Space(), meta)
}

// boxToOrigin maps a box of the view into the original's space.
func (v *view) boxToOrigin(b screenspace.BBox) (screenspace.BBox, error) {
	meta := v.shot.ResizeMetadata()
	if !v.derived() || meta == nil {
		return b, nil
	}
	return b.ToSpace(v.origin.Space(), meta)
}

// boxFromOrigin forwards a box of the original into the view's space.
func (v *view) boxFromOrigin(b screenspace.BBox) (screenspace.BBox, error) {
	meta := v.shot.ResizeMetadata()
	if !v.derived() || meta == nil {
		return b, nil
	}
	return meta.ForwardTransformBBox(b)
}
