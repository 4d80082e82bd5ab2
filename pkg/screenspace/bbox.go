package screenspace

import (
	"encoding/json"
	"fmt"
	"image"
)

// BBox is an axis-aligned rectangle bound to a Space.
//
// The rectangle covers columns [X, X+Width) and rows [Y, Y+Height) and always
// lies entirely inside its space.
type BBox struct {
	x      int
	y      int
	width  int
	height int
	space  Space
}

// NewBBox returns the rectangle at (x, y) of the given size inside space.
// It fails with ErrInvalidDimensions for a non-positive size and with
// ErrOutOfBounds when the rectangle does not fit inside space.
func NewBBox(x, y, width, height int, space Space) (BBox, error) {
	if width <= 0 || height <= 0 {
		return BBox{}, fmt.Errorf("%w: bbox %dx%d must have positive width and height",
			ErrInvalidDimensions, width, height)
	}
	if x < 0 || y < 0 {
		return BBox{}, fmt.Errorf("%w: bbox origin (%d,%d) is negative", ErrOutOfBounds, x, y)
	}
	if x+width > space.width || y+height > space.height {
		return BBox{}, fmt.Errorf("%w: bbox (%d,%d %dx%d) exceeds space %s",
			ErrOutOfBounds, x, y, width, height, space)
	}
	return BBox{x: x, y: y, width: width, height: height, space: space}, nil
}

// MustBBox is like NewBBox but panics on error.
func MustBBox(x, y, width, height int, space Space) BBox {
	b, err := NewBBox(x, y, width, height, space)
	if err != nil {
		panic(err)
	}
	return b
}

// BBoxFromRect converts an image.Rectangle into a BBox in space.
func BBoxFromRect(r image.Rectangle, space Space) (BBox, error) {
	r = r.Canon()
	return NewBBox(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), space)
}

func (b BBox) X() int       { return b.x }
func (b BBox) Y() int       { return b.y }
func (b BBox) Width() int   { return b.width }
func (b BBox) Height() int  { return b.height }
func (b BBox) Space() Space { return b.space }

// TopLeft returns the first pixel of the box.
func (b BBox) TopLeft() Coordinate {
	return Coordinate{x: b.x, y: b.y, space: b.space}
}

// BottomRight returns the last pixel of the box (inclusive).
func (b BBox) BottomRight() Coordinate {
	return Coordinate{x: b.x + b.width - 1, y: b.y + b.height - 1, space: b.space}
}

// Center returns the integer midpoint of the box.
func (b BBox) Center() Coordinate {
	return Coordinate{x: b.x + b.width/2, y: b.y + b.height/2, space: b.space}
}

// AsSpace returns the box's own local grid, the space that Localize maps into.
func (b BBox) AsSpace() Space {
	return Space{width: b.width, height: b.height}
}

// Rect returns the box as an image.Rectangle with an exclusive Max.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.x, b.y, b.x+b.width, b.y+b.height)
}

func (b BBox) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]@%s", b.x, b.y, b.width, b.height, b.space)
}

// ToSpace maps the box into target by transforming its top-left and
// bottom-right corners independently with Coordinate.ToSpace and rebuilding
// the box from the results. Because the corners are rounded separately the
// size may differ by a pixel from naive scaling of width and height.
//
// To place a box found inside a cropped window back into the full image,
// Absolutize its corners against the window first.
func (b BBox) ToSpace(target Space, meta *ResizeMetadata) (BBox, error) {
	tl := b.TopLeft().ToSpace(target, meta)
	br := b.BottomRight().ToSpace(target, meta)
	return NewBBox(tl.x, tl.y, br.x-tl.x+1, br.y-tl.y+1, target)
}

// Contains reports whether c lies inside the box. c must be expressed in the
// box's space; the spaces are not compared.
func (b BBox) Contains(c Coordinate) bool {
	return c.x >= b.x && c.x <= b.x+b.width-1 &&
		c.y >= b.y && c.y <= b.y+b.height-1
}

// Localize re-expresses c, given in the box's parent space, relative to the
// box's origin in AsSpace. It fails with ErrOutOfBounds when c lies outside
// the box.
func (b BBox) Localize(c Coordinate) (Coordinate, error) {
	return NewCoordinate(c.x-b.x, c.y-b.y, b.AsSpace())
}

// Absolutize is the inverse of Localize: c is given in AsSpace and the result
// is in the box's parent space.
func (b BBox) Absolutize(c Coordinate) (Coordinate, error) {
	return NewCoordinate(c.x+b.x, c.y+b.y, b.space)
}

type bboxJSON struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Space  Space `json:"space"`
}

func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(bboxJSON{X: b.x, Y: b.y, Width: b.width, Height: b.height, Space: b.space})
}

// UnmarshalJSON decodes a box and validates it against its space.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var v bboxJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	decoded, err := NewBBox(v.X, v.Y, v.Width, v.Height, v.Space)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
