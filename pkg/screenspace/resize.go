package screenspace

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ResizeMode selects how source content is fitted into a target space.
type ResizeMode int

const (
	// ResizeModeStretch scales each axis independently to fill the target.
	// The aspect ratio is not preserved and there is no padding.
	ResizeModeStretch ResizeMode = iota

	// ResizeModeLetterbox scales uniformly by the limiting axis and centers the
	// content, padding the remaining axis with bars.
	ResizeModeLetterbox
)

func (m ResizeMode) String() string {
	switch m {
	case ResizeModeStretch:
		return "stretch"
	case ResizeModeLetterbox:
		return "letterbox"
	default:
		return fmt.Sprintf("ResizeMode(%d)", int(m))
	}
}

// ParseResizeMode parses "stretch" or "letterbox" (case-insensitive).
func ParseResizeMode(s string) (ResizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stretch":
		return ResizeModeStretch, nil
	case "letterbox":
		return ResizeModeLetterbox, nil
	default:
		return 0, fmt.Errorf("unknown resize mode %q: expected stretch or letterbox", s)
	}
}

func (m ResizeMode) MarshalText() ([]byte, error) {
	switch m {
	case ResizeModeStretch, ResizeModeLetterbox:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal %s", m)
	}
}

func (m *ResizeMode) UnmarshalText(text []byte) error {
	parsed, err := ParseResizeMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ResizeMetadata records how the content of a source space was resized into a
// target space.
//
// The content occupies a ScaledWidth x ScaledHeight rectangle placed at
// (OffsetX, OffsetY) inside the target; the rest of the target is padding.
// For ResizeModeStretch the content fills the whole target.
//
// Metadata is computed once per (source, target, mode) triple with
// ComputeStretchMetadata or ComputeLetterboxMetadata and can then translate any
// number of coordinates and boxes in either direction.
type ResizeMetadata struct {
	source       Space
	target       Space
	mode         ResizeMode
	scale        float64
	offsetX      int
	offsetY      int
	scaledWidth  int
	scaledHeight int
}

// ComputeStretchMetadata returns the metadata for stretching source to fill
// target. Both spaces must be valid.
func ComputeStretchMetadata(source, target Space) ResizeMetadata {
	return ResizeMetadata{
		source:       source,
		target:       target,
		mode:         ResizeModeStretch,
		scale:        1.0,
		scaledWidth:  target.width,
		scaledHeight: target.height,
	}
}

// ComputeLetterboxMetadata returns the metadata for fitting source inside
// target with its aspect ratio preserved. Both spaces must be valid.
//
// The scale is the smaller of the two axis ratios. The content is centered
// using floor division, so when the leftover on an axis is odd the bottom or
// right bar is one pixel larger than the top or left bar. The scaled content is
// never smaller than one pixel on either axis.
func ComputeLetterboxMetadata(source, target Space) ResizeMetadata {
	scale := math.Min(
		float64(target.width)/float64(source.width),
		float64(target.height)/float64(source.height),
	)
	scaledWidth := max(1, roundHalfEven(float64(source.width)*scale))
	scaledHeight := max(1, roundHalfEven(float64(source.height)*scale))

	return ResizeMetadata{
		source:       source,
		target:       target,
		mode:         ResizeModeLetterbox,
		scale:        scale,
		offsetX:      (target.width - scaledWidth) / 2,
		offsetY:      (target.height - scaledHeight) / 2,
		scaledWidth:  scaledWidth,
		scaledHeight: scaledHeight,
	}
}

// ComputeResizeMetadata dispatches to the factory for mode.
func ComputeResizeMetadata(source, target Space, mode ResizeMode) (ResizeMetadata, error) {
	switch mode {
	case ResizeModeStretch:
		return ComputeStretchMetadata(source, target), nil
	case ResizeModeLetterbox:
		return ComputeLetterboxMetadata(source, target), nil
	default:
		return ResizeMetadata{}, fmt.Errorf("unsupported resize mode %s", mode)
	}
}

func (m ResizeMetadata) SourceSpace() Space { return m.source }
func (m ResizeMetadata) TargetSpace() Space { return m.target }
func (m ResizeMetadata) Mode() ResizeMode   { return m.mode }

// Scale is the uniform letterbox scale factor; it is 1.0 for stretch metadata.
func (m ResizeMetadata) Scale() float64   { return m.scale }
func (m ResizeMetadata) OffsetX() int     { return m.offsetX }
func (m ResizeMetadata) OffsetY() int     { return m.offsetY }
func (m ResizeMetadata) ScaledWidth() int { return m.scaledWidth }
func (m ResizeMetadata) ScaledHeight() int {
	return m.scaledHeight
}

// ContentBBox returns the rectangle of the target space covered by the resized
// content, i.e. the target minus any padding.
func (m ResizeMetadata) ContentBBox() BBox {
	return BBox{
		x:      m.offsetX,
		y:      m.offsetY,
		width:  m.scaledWidth,
		height: m.scaledHeight,
		space:  m.target,
	}
}

// ForwardTransformCoordinate maps c from the source space into the target
// space. c must be expressed in the source space.
func (m ResizeMetadata) ForwardTransformCoordinate(c Coordinate) Coordinate {
	var x, y int
	switch m.mode {
	case ResizeModeLetterbox:
		x = scaleAxis(c.x, m.source.width, m.scaledWidth) + m.offsetX
		y = scaleAxis(c.y, m.source.height, m.scaledHeight) + m.offsetY
	default:
		x = scaleAxis(c.x, m.source.width, m.target.width)
		y = scaleAxis(c.y, m.source.height, m.target.height)
	}
	return Coordinate{
		x:     clamp(x, 0, m.target.width-1),
		y:     clamp(y, 0, m.target.height-1),
		space: m.target,
	}
}

// TransformCoordinate maps c from the target space back into the source space
// and, when target is not the source space, proportionally onward into target.
// c must be expressed in the metadata's target space.
//
// For letterbox metadata a coordinate inside a padding bar is clamped to the
// nearest source edge.
func (m ResizeMetadata) TransformCoordinate(c Coordinate, target Space) Coordinate {
	var x, y int
	switch m.mode {
	case ResizeModeLetterbox:
		x = scaleAxis(c.x-m.offsetX, m.scaledWidth, m.source.width)
		y = scaleAxis(c.y-m.offsetY, m.scaledHeight, m.source.height)
	default:
		x = scaleAxis(c.x, m.target.width, m.source.width)
		y = scaleAxis(c.y, m.target.height, m.source.height)
	}
	x = clamp(x, 0, m.source.width-1)
	y = clamp(y, 0, m.source.height-1)

	if target == m.source {
		return Coordinate{x: x, y: y, space: target}
	}
	return remap(x, y, m.source, target)
}

// ForwardTransformBBox maps b from the source space into the target space by
// transforming its corners independently. b must be expressed in the source
// space.
func (m ResizeMetadata) ForwardTransformBBox(b BBox) (BBox, error) {
	tl := m.ForwardTransformCoordinate(b.TopLeft())
	br := m.ForwardTransformCoordinate(b.BottomRight())
	return NewBBox(tl.x, tl.y, br.x-tl.x+1, br.y-tl.y+1, m.target)
}

func (m ResizeMetadata) String() string {
	return fmt.Sprintf("%s %s->%s scale=%.4f offset=(%d,%d) content=%dx%d",
		m.mode, m.source, m.target, m.scale, m.offsetX, m.offsetY, m.scaledWidth, m.scaledHeight)
}

type resizeMetadataJSON struct {
	SourceSpace  Space      `json:"source_space"`
	TargetSpace  Space      `json:"target_space"`
	Mode         ResizeMode `json:"mode"`
	Scale        float64    `json:"scale"`
	OffsetX      int        `json:"offset_x"`
	OffsetY      int        `json:"offset_y"`
	ScaledWidth  int        `json:"scaled_width"`
	ScaledHeight int        `json:"scaled_height"`
}

func (m ResizeMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(resizeMetadataJSON{
		SourceSpace:  m.source,
		TargetSpace:  m.target,
		Mode:         m.mode,
		Scale:        m.scale,
		OffsetX:      m.offsetX,
		OffsetY:      m.offsetY,
		ScaledWidth:  m.scaledWidth,
		ScaledHeight: m.scaledHeight,
	})
}

// UnmarshalJSON decodes metadata produced by MarshalJSON. Only the spaces and
// the mode are read; the derived fields are recomputed so decoded metadata is
// always consistent.
func (m *ResizeMetadata) UnmarshalJSON(data []byte) error {
	var v resizeMetadataJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	decoded, err := ComputeResizeMetadata(v.SourceSpace, v.TargetSpace, v.Mode)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}
