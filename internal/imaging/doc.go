// Package imaging provides the screenshot model and the pixel operations the
// MCP server exposes on it.
//
// A Screenshot wraps encoded image bytes together with the screenspace.Space
// of its pixel grid. Resizing a screenshot produces a new Screenshot that
// carries the screenspace.ResizeMetadata describing how the two grids relate,
// so coordinates found on the resized copy can be mapped back to the
// original.
//
// # Coordinates
//
// Operations take screenspace.Coordinate and screenspace.BBox values rather
// than bare integers. Each value names the space it lives in, and operations
// reject values whose space does not match the image they are applied to:
//   - (0,0) is the top-left pixel, X grows rightward, Y grows downward
//   - Coordinates are inclusive pixel indices
//   - A BBox is an origin plus a width and height; its Rect is half-open
//
// # Thread Safety
//
// Store is safe for concurrent use. Screenshot decodes lazily and at most once.
// The remaining operations are stateless and read the image only.
//
// # Color Representation
//
// Colors are returned in multiple formats:
//   - Hex: "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Memory
//
// Store keeps decoded images for the lifetime of their handle. Long-running
// processes should call Evict or Clear once a screenshot is no longer needed.
package imaging
