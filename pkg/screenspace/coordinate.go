package screenspace

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
)

// Coordinate is a pixel position bound to a Space.
//
// A Coordinate always satisfies 0 <= X < Space.Width and 0 <= Y < Space.Height.
type Coordinate struct {
	x     int
	y     int
	space Space
}

// NewCoordinate returns the point (x, y) in space. It fails with
// ErrOutOfBounds if the point does not lie inside the space.
func NewCoordinate(x, y int, space Space) (Coordinate, error) {
	if x < 0 || x >= space.width {
		return Coordinate{}, fmt.Errorf("%w: x=%d outside width %d", ErrOutOfBounds, x, space.width)
	}
	if y < 0 || y >= space.height {
		return Coordinate{}, fmt.Errorf("%w: y=%d outside height %d", ErrOutOfBounds, y, space.height)
	}
	return Coordinate{x: x, y: y, space: space}, nil
}

// MustCoordinate is like NewCoordinate but panics if the point is out of bounds.
func MustCoordinate(x, y int, space Space) Coordinate {
	c, err := NewCoordinate(x, y, space)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinate) X() int { return c.x }

func (c Coordinate) Y() int { return c.y }

// Space returns the space the coordinate is expressed in.
func (c Coordinate) Space() Space { return c.space }

// Point returns the coordinate as an image.Point.
func (c Coordinate) Point() image.Point {
	return image.Pt(c.x, c.y)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)@%s", c.x, c.y, c.space)
}

// ToSpace maps the coordinate into target.
//
// Without metadata the mapping is a pure proportional remap using pixel-center
// ratio scaling; it knows nothing about padding. With metadata the coordinate
// must be expressed in meta's target space: it is mapped back into meta's
// source space and, if target differs from that source, remapped onward into
// target. See ResizeMetadata.TransformCoordinate.
//
// target must be a valid Space obtained from NewSpace.
func (c Coordinate) ToSpace(target Space, meta *ResizeMetadata) Coordinate {
	if meta != nil {
		return meta.TransformCoordinate(c, target)
	}
	return remap(c.x, c.y, c.space, target)
}

type coordinateJSON struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Space Space `json:"space"`
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordinateJSON{X: c.x, Y: c.y, Space: c.space})
}

// UnmarshalJSON decodes {"x":..,"y":..,"space":{..}} and validates the bounds.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var v coordinateJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	decoded, err := NewCoordinate(v.X, v.Y, v.Space)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// remap proportionally maps (x, y) from one space into another, clamped to the
// bounds of the destination.
func remap(x, y int, from, to Space) Coordinate {
	return Coordinate{
		x:     clamp(scaleAxis(x, from.width, to.width), 0, to.width-1),
		y:     clamp(scaleAxis(y, from.height, to.height), 0, to.height-1),
		space: to,
	}
}

// scaleAxis maps index v of an axis n pixels long onto an axis m pixels long,
// treating indices as the endpoints of a continuous range. An axis of one pixel
// has no extent to scale over and maps to 0.
func scaleAxis(v, n, m int) int {
	if n <= 1 {
		return 0
	}
	return roundHalfEven(float64(v*(m-1)) / float64(n-1))
}

func roundHalfEven(f float64) int {
	return int(math.RoundToEven(f))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
