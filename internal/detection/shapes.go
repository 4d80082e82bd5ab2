package detection

import (
	"image"
	"math"
	"sort"

	"github.com/PoorRican/gui-agent-screenshot-tools/internal/imaging"
	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// Rectangle represents a detected rectangular shape with metadata.
//
// Rectangles are detected using edge detection and contour analysis.
// The confidence score indicates how closely the shape matches a true rectangle.
type Rectangle struct {
	// Box is the bounding box of the outline, inclusive of both edges.
	Box screenspace.BBox `json:"box"`

	// Center is the center pixel of the rectangle.
	Center screenspace.Coordinate `json:"center"`

	// Area is Box's width times its height in square pixels.
	Area int `json:"area"`

	// FillColor is the hex color sampled at the center of the rectangle.
	FillColor string `json:"fill_color,omitempty"`

	// BorderColor is the hex color sampled at the top-left corner.
	BorderColor string `json:"border_color,omitempty"`

	// Confidence indicates how rectangular the shape is (0.0 to 1.0).
	// Based on comparing contour length to expected rectangle perimeter.
	Confidence float64 `json:"confidence"`
}

// RectanglesResult contains all rectangles detected in an image.
type RectanglesResult struct {
	// Rectangles is the list of detected rectangles, sorted by area (largest first).
	Rectangles []Rectangle `json:"rectangles"`

	// Count is the number of rectangles detected.
	Count int `json:"count"`

	// Space is the space of every box and center in Rectangles.
	Space screenspace.Space `json:"space"`
}

// DetectRectangles finds rectangular shapes in an image using edge and contour analysis.
//
// This function is useful for detecting buttons, panels, input fields and other
// rectangular UI elements in screenshots.
//
// Parameters:
//   - img: Source image to analyze.
//   - minArea: Minimum area in square pixels for a rectangle to be included.
//     Use higher values to filter out small noise. Typical: 100-1000.
//   - tolerance: Rectangularity threshold (0.0 to 1.0). Higher values require
//     shapes to be more perfectly rectangular. Typical: 0.8-0.95.
//
// # Algorithm
//
//  1. Edge Detection: grayscale forward differences above a fixed threshold
//  2. Contour Finding: flood-fill groups connected edge pixels
//  3. Bounding Box: the bounding rectangle of each contour
//  4. Rectangularity Check: Score = 1 - |contour_length - perimeter| / perimeter
//  5. Filtering: Remove shapes below minArea or with score < tolerance
//  6. Color Sampling: fill color at the center, border color at the corner
//
// # Limitations
//
//   - Only detects axis-aligned rectangles (not rotated)
//   - May detect nested rectangles separately
//   - Rounded corners reduce rectangularity score
func DetectRectangles(img image.Image, minArea int, tolerance float64) (*RectanglesResult, error) {
	space, err := imaging.SpaceOf(img)
	if err != nil {
		return nil, err
	}

	contours := findContours(edgeMask(img))
	rectangles := make([]Rectangle, 0)

	for _, contour := range contours {
		if len(contour) < 4 {
			continue
		}

		bounds := contourBounds(contour)
		spanX := bounds.Max.X - bounds.Min.X
		spanY := bounds.Max.Y - bounds.Min.Y
		if spanX*spanY < minArea {
			continue
		}

		expectedPerimeter := 2 * (spanX + spanY)
		rectangularity := 1.0 - math.Abs(float64(len(contour)-expectedPerimeter))/float64(expectedPerimeter)
		if rectangularity < tolerance {
			continue
		}

		box, err := screenspace.NewBBox(bounds.Min.X, bounds.Min.Y, spanX+1, spanY+1, space)
		if err != nil {
			return nil, err
		}
		center := screenspace.MustCoordinate(
			(bounds.Min.X+bounds.Max.X)/2, (bounds.Min.Y+bounds.Max.Y)/2, space)

		rectangles = append(rectangles, Rectangle{
			Box:         box,
			Center:      center,
			Area:        box.Width() * box.Height(),
			FillColor:   sampleColorHex(img, center.X(), center.Y()),
			BorderColor: sampleColorHex(img, bounds.Min.X, bounds.Min.Y),
			Confidence:  math.Round(rectangularity*1000) / 1000,
		})
	}

	sort.SliceStable(rectangles, func(i, j int) bool {
		return rectangles[i].Area > rectangles[j].Area
	})

	return &RectanglesResult{
		Rectangles: rectangles,
		Count:      len(rectangles),
		Space:      space,
	}, nil
}

// contourBounds returns the smallest rectangle whose Min and Max corners are
// both contour pixels' extremes (Max is inclusive).
func contourBounds(contour []image.Point) image.Rectangle {
	r := image.Rectangle{Min: contour[0], Max: contour[0]}
	for _, p := range contour[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}
