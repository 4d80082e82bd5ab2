// Package screenspace provides a coordinate-space algebra for translating pixel
// positions and regions between differently sized images.
//
// The typical use is a GUI agent: a screenshot is captured at the display's
// native resolution, resized for a vision model that only perceives a fixed
// size image, and the model answers with coordinates in the resized image.
// Those coordinates have to be mapped back onto the real screen before a click
// can be issued.
//
// # Types
//
//   - Space: the width and height of a pixel grid.
//   - Coordinate: a point bound to a Space.
//   - BBox: an axis-aligned rectangle bound to a Space.
//   - ResizeMetadata: how one Space maps onto another under a ResizeMode.
//
// All four are immutable values. They are created by validating constructors
// (NewSpace, NewCoordinate, NewBBox) or by the metadata factories, and once a
// value exists it is valid for its whole lifetime. Values are comparable with
// == and may be shared freely between goroutines.
//
// The zero values are not valid; always obtain values from the constructors.
//
// # Coordinate System
//
// Pixel indices are 0-based with the origin at the top-left corner:
//   - X: 0 is the leftmost column, width-1 the rightmost
//   - Y: 0 is the topmost row, height-1 the bottom row
//
// Proportional mapping between two axes uses pixel-center ratio scaling: the
// index range [0, n-1] of the source axis is mapped linearly onto [0, m-1] of
// the target axis and rounded to the nearest pixel. A source axis that is a
// single pixel wide always maps to the origin of the target axis.
//
// # Resize Modes
//
//   - ResizeModeStretch: each axis is scaled independently to fill the target.
//   - ResizeModeLetterbox: the aspect ratio is preserved; the content is scaled
//     to fit and centered, leaving padding bars on one axis.
//
// A coordinate that falls into letterbox padding is clamped to the nearest edge
// of the source image when mapped back. This is the defined behavior for clicks
// that land on a padding bar, not an error.
//
// # Example
//
//	screen, _ := screenspace.NewSpace(1920, 1080)
//	model, _ := screenspace.NewSpace(1024, 1024)
//	meta := screenspace.ComputeLetterboxMetadata(screen, model)
//
//	click, _ := screenspace.NewCoordinate(512, 512, model)
//	onScreen := click.ToSpace(screen, &meta) // (960,540)
//
// # Errors
//
// Construction fails with ErrInvalidDimensions for non-positive sizes and with
// ErrOutOfBounds for points or rectangles outside their Space. Errors wrap
// these sentinels, so callers should test with errors.Is.
package screenspace
