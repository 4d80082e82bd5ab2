package screenspace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Space describes the dimensions of a pixel grid.
//
// Two spaces are equal when their width and height match.
type Space struct {
	width  int
	height int
}

// NewSpace returns a Space of the given size. Both dimensions must be positive.
func NewSpace(width, height int) (Space, error) {
	if width <= 0 || height <= 0 {
		return Space{}, fmt.Errorf("%w: space %dx%d must have positive width and height",
			ErrInvalidDimensions, width, height)
	}
	return Space{width: width, height: height}, nil
}

// MustSpace is like NewSpace but panics if the dimensions are invalid.
func MustSpace(width, height int) Space {
	s, err := NewSpace(width, height)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSpace parses a "WIDTHxHEIGHT" string such as "1920x1080".
func ParseSpace(str string) (Space, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(str)), "x")
	if !ok {
		return Space{}, fmt.Errorf("invalid space %q: expected WIDTHxHEIGHT", str)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Space{}, fmt.Errorf("invalid space width %q: %w", w, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Space{}, fmt.Errorf("invalid space height %q: %w", h, err)
	}
	return NewSpace(width, height)
}

// Width returns the number of pixel columns.
func (s Space) Width() int { return s.width }

// Height returns the number of pixel rows.
func (s Space) Height() int { return s.height }

// AspectRatio returns width / height.
func (s Space) AspectRatio() float64 {
	return float64(s.width) / float64(s.height)
}

func (s Space) String() string {
	return fmt.Sprintf("%dx%d", s.width, s.height)
}

type spaceJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MarshalJSON encodes the space as {"width":W,"height":H}.
func (s Space) MarshalJSON() ([]byte, error) {
	return json.Marshal(spaceJSON{Width: s.width, Height: s.height})
}

// UnmarshalJSON decodes {"width":W,"height":H} and validates the dimensions.
func (s *Space) UnmarshalJSON(data []byte) error {
	var v spaceJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	decoded, err := NewSpace(v.Width, v.Height)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
