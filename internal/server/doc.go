// Package server implements the MCP (Model Context Protocol) server that exposes
// screenshot coordinate tools to GUI agents.
//
// An agent usually sees a screenshot only after it has been resized to the
// model's input size, often letterboxed. The tools here let it load the full
// resolution capture, resize it the same way, and map every coordinate or box
// it reasons about back to real screen pixels.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Coordinate Math (no screenshot needed):
//   - space_resize_metadata: Scale and padding of a resize
//   - coordinate_to_space, coordinate_forward: Map a point between spaces
//   - bbox_to_space: Map a box between spaces
//   - bbox_localize, bbox_absolutize: Move between screen and window coordinates
//
// Screenshot Lifecycle:
//   - screenshot_load, screenshot_info, screenshot_resize, screenshot_evict,
//     screenshot_clear
//
// Coordinate Mapping:
//   - screenshot_map_coordinate: Point in a resized screenshot to original and screen pixels
//
// Region, Color and Measurement:
//   - screenshot_crop, screenshot_crop_quadrant
//   - screenshot_sample_color, screenshot_sample_colors_multi, screenshot_dominant_colors
//   - screenshot_grid_overlay, screenshot_measure_distance
//   - screenshot_check_alignment, screenshot_compare_regions
//
// OCR and Detection:
//   - screenshot_ocr, screenshot_detect_text_regions
//   - screenshot_detect_rectangles, screenshot_edge_detect
//
// # Handles
//
// Screenshots live in an imaging.Store under opaque handles. A resize always
// starts from the loaded original and the result is stored as derived from it,
// so one ResizeMetadata links any handle to original pixels. Tools take their
// coordinates in the space of the handle they are called with. Pixel reads,
// crops, OCR and detection run on the original; their boxes are reported in
// original pixels and again in the handle's space.
//
// # Error Handling
//
// Tool failures are JSON-RPC error responses:
//   - -32602 for unknown tools, malformed arguments, invalid spaces,
//     out-of-bounds coordinates and unknown handles
//   - -32000 for any other failure (unreadable file, missing Tesseract)
//
// The error's data field carries the Go error string.
//
// # Logging
//
// Requests are logged with zap. Each request's logger carries its id and
// method, and tool failures are logged at warn level with the tool name.
package server
