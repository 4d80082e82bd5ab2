package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Schema fragments shared by several tools.

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func object(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func boxSchema(description string) map[string]interface{} {
	schema := object(map[string]interface{}{
		"x":      prop("integer", "Left edge (0-based)"),
		"y":      prop("integer", "Top edge (0-based)"),
		"width":  prop("integer", "Width in pixels"),
		"height": prop("integer", "Height in pixels"),
	}, "x", "y", "width", "height")
	schema["description"] = description
	return schema
}

var (
	handleProp = prop("string", "Screenshot handle returned by screenshot_load or screenshot_resize")
	modeProp   = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"stretch", "letterbox"},
		"description": "Resize mode. stretch scales each axis independently; letterbox keeps the aspect ratio and pads",
	}
)

// GetToolDefinitions returns all available tools. Spaces are written "WxH"
// (e.g. "1920x1080"). Screenshot tools take coordinates in the space of the
// handle they are given and map them to the original where pixels are read.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Coordinate Math
		{
			Name:        "space_resize_metadata",
			Description: "Compute how a resize from source to target maps pixels: scale factors, letterbox padding and the content box within the target.",
			InputSchema: object(map[string]interface{}{
				"source": prop("string", "Source space, e.g. \"1920x1080\""),
				"target": prop("string", "Target space. Defaults to the configured model input size"),
				"mode":   modeProp,
			}, "source"),
		},
		{
			Name:        "coordinate_to_space",
			Description: "Map a coordinate from one space into another. Without mode the axes are scaled proportionally. With mode, space is taken to be the result of resizing resized_from (default: target) and letterbox padding is undone.",
			InputSchema: object(map[string]interface{}{
				"x":            prop("integer", "X coordinate in space"),
				"y":            prop("integer", "Y coordinate in space"),
				"space":        prop("string", "Space the coordinate is in"),
				"target":       prop("string", "Space to map into"),
				"mode":         modeProp,
				"resized_from": prop("string", "Space that was resized to produce space. Requires mode"),
			}, "x", "y", "space", "target"),
		},
		{
			Name:        "coordinate_forward",
			Description: "Map a coordinate from a source space into the image a resize of that source would produce, including letterbox offsets.",
			InputSchema: object(map[string]interface{}{
				"x":      prop("integer", "X coordinate in source"),
				"y":      prop("integer", "Y coordinate in source"),
				"source": prop("string", "Space the coordinate is in"),
				"target": prop("string", "Space of the resized image"),
				"mode":   modeProp,
			}, "x", "y", "source", "target"),
		},
		{
			Name:        "bbox_to_space",
			Description: "Map a bounding box into another space by mapping its inclusive corners. Accepts the same mode and resized_from arguments as coordinate_to_space.",
			InputSchema: object(map[string]interface{}{
				"x":            prop("integer", "Left edge in space"),
				"y":            prop("integer", "Top edge in space"),
				"width":        prop("integer", "Width in pixels"),
				"height":       prop("integer", "Height in pixels"),
				"space":        prop("string", "Space the box is in"),
				"target":       prop("string", "Space to map into"),
				"mode":         modeProp,
				"resized_from": prop("string", "Space that was resized to produce space. Requires mode"),
			}, "x", "y", "width", "height", "space", "target"),
		},
		{
			Name:        "bbox_localize",
			Description: "Convert a point on the screen into coordinates local to a window box on that screen.",
			InputSchema: object(map[string]interface{}{
				"window": boxSchema("Window box in space"),
				"space":  prop("string", "Screen space the window sits in"),
				"x":      prop("integer", "X coordinate in space"),
				"y":      prop("integer", "Y coordinate in space"),
			}, "window", "space", "x", "y"),
		},
		{
			Name:        "bbox_absolutize",
			Description: "Convert a point local to a window box into screen coordinates.",
			InputSchema: object(map[string]interface{}{
				"window": boxSchema("Window box in space"),
				"space":  prop("string", "Screen space the window sits in"),
				"x":      prop("integer", "X coordinate within the window"),
				"y":      prop("integer", "Y coordinate within the window"),
			}, "window", "space", "x", "y"),
		},

		// Screenshot Lifecycle
		{
			Name:        "screenshot_load",
			Description: "Load a screenshot file and return a handle with its space, format and color depth.",
			InputSchema: object(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "screenshot_info",
			Description: "Describe a stored screenshot. Resized screenshots include their resize metadata and origin handle.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
			}, "handle"),
		},
		{
			Name:        "screenshot_resize",
			Description: "Resize a screenshot to a model input size and store the result. The resize always starts from the original, so the new handle maps straight back to original pixels.",
			InputSchema: object(map[string]interface{}{
				"handle":        handleProp,
				"target":        prop("string", "Target space. Defaults to the configured model input size"),
				"mode":          modeProp,
				"include_image": propDefault("boolean", "Return the resized image as base64", false),
			}, "handle"),
		},
		{
			Name:        "screenshot_evict",
			Description: "Drop a screenshot from the store. Evicting an original also drops every screenshot resized from it.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
			}, "handle"),
		},

		{
			Name:        "screenshot_clear",
			Description: "Drop every stored screenshot.",
			InputSchema: object(map[string]interface{}{}),
		},

		// Coordinate Mapping
		{
			Name:        "screenshot_map_coordinate",
			Description: "Map a coordinate in a screenshot back to original pixels. When the screenshot shows a window, also returns the coordinate on the full screen.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"x":      prop("integer", "X coordinate in the screenshot"),
				"y":      prop("integer", "Y coordinate in the screenshot"),
				"window": boxSchema("Where the original screenshot sits on the screen. Its size must match the original"),
				"screen": prop("string", "Screen space the window sits in. Required with window"),
			}, "handle", "x", "y"),
		},

		// Region Operations
		{
			Name:        "screenshot_crop",
			Description: "Crop a region at full original resolution and return it as base64-encoded PNG. Use this to zoom into areas that need detailed examination.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"x":      prop("integer", "Left edge in the screenshot"),
				"y":      prop("integer", "Top edge in the screenshot"),
				"width":  prop("integer", "Width in pixels"),
				"height": prop("integer", "Height in pixels"),
				"scale":  propDefault("number", "Optional scale factor (e.g., 2.0 to double size)", 1.0),
				"keep":   propDefault("boolean", "Store the crop and return a handle for it. Map its coordinates back with the returned region", false),
			}, "handle", "x", "y", "width", "height"),
		},
		{
			Name:        "screenshot_crop_quadrant",
			Description: "Crop a named region of a screenshot at full original resolution.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"region": map[string]interface{}{
					"type": "string",
					"enum": []string{
						"top-left", "top-right", "bottom-left", "bottom-right",
						"top-half", "bottom-half", "left-half", "right-half", "center",
					},
					"description": "Named region to crop",
				},
				"scale": propDefault("number", "Optional scale factor", 1.0),
			}, "handle", "region"),
		},

		// Color Operations
		{
			Name:        "screenshot_sample_color",
			Description: "Get the exact color at a pixel in hex, RGB and HSL.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"x":      prop("integer", "X coordinate in the screenshot"),
				"y":      prop("integer", "Y coordinate in the screenshot"),
			}, "handle", "x", "y"),
		},
		{
			Name:        "screenshot_sample_colors_multi",
			Description: "Sample colors at several labeled points.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"points": map[string]interface{}{
					"type": "array",
					"items": object(map[string]interface{}{
						"x":     prop("integer", "X coordinate in the screenshot"),
						"y":     prop("integer", "Y coordinate in the screenshot"),
						"label": prop("string", "Optional label echoed in the result"),
					}, "x", "y"),
					"description": "Points to sample",
				},
			}, "handle", "points"),
		},
		{
			Name:        "screenshot_dominant_colors",
			Description: "Find the most common colors in a screenshot or a region of it.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"count":  propDefault("integer", "Number of colors to return", 5),
				"region": boxSchema("Optional region in the screenshot"),
			}, "handle"),
		},

		// Measurement Operations
		{
			Name:        "screenshot_grid_overlay",
			Description: "Overlay a coordinate grid on a screenshot to help identify positions. Labels can show screenshot or original pixel coordinates.",
			InputSchema: object(map[string]interface{}{
				"handle":           handleProp,
				"grid_spacing":     prop("integer", "Pixels between grid lines. Defaults to the configured spacing"),
				"show_coordinates": propDefault("boolean", "Label grid intersections", true),
				"label_space": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"screenshot", "original"},
					"default":     "screenshot",
					"description": "Which coordinates labels show",
				},
				"grid_color": propDefault("string", "Grid line color in hex with optional alpha", "#FF000080"),
			}, "handle"),
		},
		{
			Name:        "screenshot_measure_distance",
			Description: "Measure the distance between two points in original pixels.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"x1":     prop("integer", "First point X"),
				"y1":     prop("integer", "First point Y"),
				"x2":     prop("integer", "Second point X"),
				"y2":     prop("integer", "Second point Y"),
			}, "handle", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "screenshot_check_alignment",
			Description: "Check whether points share a row or column within a tolerance, measured in original pixels.",
			InputSchema: object(map[string]interface{}{
				"handle": handleProp,
				"points": map[string]interface{}{
					"type": "array",
					"items": object(map[string]interface{}{
						"x": prop("integer", "X coordinate in the screenshot"),
						"y": prop("integer", "Y coordinate in the screenshot"),
					}, "x", "y"),
					"minItems":    2,
					"description": "Points to compare",
				},
				"tolerance": propDefault("integer", "Allowed deviation in pixels", 5),
			}, "handle", "points"),
		},
		{
			Name:        "screenshot_compare_regions",
			Description: "Compare two regions pixel by pixel at original resolution.",
			InputSchema: object(map[string]interface{}{
				"handle":  handleProp,
				"region1": boxSchema("First region in the screenshot"),
				"region2": boxSchema("Second region in the screenshot"),
			}, "handle", "region1", "region2"),
		},

		// OCR and Detection
		{
			Name:        "screenshot_ocr",
			Description: "Extract text with Tesseract OCR at original resolution. Word boxes are returned in original pixels and in the screenshot's space.",
			InputSchema: object(map[string]interface{}{
				"handle":   handleProp,
				"language": prop("string", "Tesseract language code. Defaults to the configured language"),
				"region":   boxSchema("Optional region in the screenshot"),
			}, "handle"),
		},
		{
			Name:        "screenshot_detect_text_regions",
			Description: "Locate blocks of text. Boxes are returned in original pixels and in the screenshot's space.",
			InputSchema: object(map[string]interface{}{
				"handle":         handleProp,
				"min_confidence": prop("number", "Minimum confidence between 0 and 1. Defaults to the configured value"),
				"method": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"ocr", "heuristic"},
					"default":     "ocr",
					"description": "ocr uses Tesseract; heuristic uses edge density and needs no Tesseract install",
				},
			}, "handle"),
		},
		{
			Name:        "screenshot_detect_rectangles",
			Description: "Detect rectangular UI elements such as buttons and panels.",
			InputSchema: object(map[string]interface{}{
				"handle":    handleProp,
				"min_area":  propDefault("integer", "Minimum area in original pixels", 100),
				"tolerance": propDefault("number", "How rectangular a shape must be, 0-1", 0.9),
			}, "handle"),
		},
		{
			Name:        "screenshot_edge_detect",
			Description: "Produce an edge map of the screenshot as base64-encoded PNG.",
			InputSchema: object(map[string]interface{}{
				"handle":         handleProp,
				"threshold_low":  propDefault("integer", "Low threshold 0-255", 50),
				"threshold_high": propDefault("integer", "High threshold 0-255", 150),
			}, "handle"),
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
