package screenspace

import "errors"

var (
	// ErrInvalidDimensions is returned when a Space or BBox is given a
	// non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrOutOfBounds is returned when a Coordinate lies outside its Space, or a
	// BBox has a negative origin or extends past the edge of its Space.
	ErrOutOfBounds = errors.New("out of bounds")
)
