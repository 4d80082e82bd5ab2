package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                int     `json:"delta_x"`
	DeltaY                int     `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"`
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
}

// MeasureDistance calculates the distance between two coordinates of the same
// space. Percentages are relative to that space's width and height.
func MeasureDistance(from, to screenspace.Coordinate) (*DistanceResult, error) {
	if from.Space() != to.Space() {
		return nil, fmt.Errorf("cannot measure between spaces %s and %s", from.Space(), to.Space())
	}
	width := float64(from.Space().Width())
	height := float64(from.Space().Height())

	deltaX := to.X() - from.X()
	deltaY := to.Y() - from.Y()

	distance := math.Sqrt(float64(deltaX*deltaX + deltaY*deltaY))

	// 0 = horizontal right, 90 = down
	angle := math.Atan2(float64(deltaY), float64(deltaX)) * 180 / math.Pi

	return &DistanceResult{
		DistancePixels:        math.Round(distance*100) / 100,
		DeltaX:                deltaX,
		DeltaY:                deltaY,
		AngleDegrees:          math.Round(angle*10) / 10,
		DistancePercentWidth:  math.Round(distance/width*1000) / 10,
		DistancePercentHeight: math.Round(distance/height*1000) / 10,
	}, nil
}

// AlignmentResult contains alignment check information
type AlignmentResult struct {
	HorizontallyAligned bool    `json:"horizontally_aligned"`
	VerticallyAligned   bool    `json:"vertically_aligned"`
	HorizontalVariance  float64 `json:"horizontal_variance"`
	VerticalVariance    float64 `json:"vertical_variance"`
	AverageY            float64 `json:"average_y"`
	AverageX            float64 `json:"average_x"`
}

// CheckAlignment checks if points are aligned horizontally or vertically.
// The variances are standard deviations in pixels, compared to tolerance.
func CheckAlignment(points []screenspace.Coordinate, tolerance int) (*AlignmentResult, error) {
	if len(points) < 2 {
		return &AlignmentResult{
			HorizontallyAligned: true,
			VerticallyAligned:   true,
		}, nil
	}
	for _, p := range points[1:] {
		if p.Space() != points[0].Space() {
			return nil, fmt.Errorf("point %s is not in space %s", p, points[0].Space())
		}
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.X())
		sumY += float64(p.Y())
	}
	avgX := sumX / float64(len(points))
	avgY := sumY / float64(len(points))

	var varX, varY float64
	for _, p := range points {
		dx := float64(p.X()) - avgX
		dy := float64(p.Y()) - avgY
		varX += dx * dx
		varY += dy * dy
	}
	varX = math.Sqrt(varX / float64(len(points)))
	varY = math.Sqrt(varY / float64(len(points)))

	return &AlignmentResult{
		HorizontallyAligned: varY <= float64(tolerance),
		VerticallyAligned:   varX <= float64(tolerance),
		HorizontalVariance:  math.Round(varY*100) / 100,
		VerticalVariance:    math.Round(varX*100) / 100,
		AverageY:            math.Round(avgY*100) / 100,
		AverageX:            math.Round(avgX*100) / 100,
	}, nil
}

// CompareRegionsResult contains region comparison information
type CompareRegionsResult struct {
	SimilarityScore  float64           `json:"similarity_score"`
	PixelsDifferent  int               `json:"pixels_different"`
	TotalPixels      int               `json:"total_pixels"`
	SameSize         bool              `json:"same_size"`
	Region1Size      screenspace.Space `json:"region1_size"`
	Region2Size      screenspace.Space `json:"region2_size"`
	AverageColorDiff float64           `json:"average_color_diff"`
}

// CompareRegions compares two boxes of an image pixel by pixel, aligned at
// their top-left corners. When the boxes differ in size only the overlapping
// extent is compared.
func CompareRegions(img image.Image, r1, r2 screenspace.BBox) (*CompareRegionsResult, error) {
	if err := checkSpace(img, r1.Space()); err != nil {
		return nil, err
	}
	if err := checkSpace(img, r2.Space()); err != nil {
		return nil, err
	}

	origin := img.Bounds().Min
	minW := min(r1.Width(), r2.Width())
	minH := min(r1.Height(), r2.Height())

	totalPixels := minW * minH
	pixelsDifferent := 0
	var totalColorDiff float64

	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			r1c, g1c, b1c, _ := img.At(origin.X+r1.X()+dx, origin.Y+r1.Y()+dy).RGBA()
			r2c, g2c, b2c, _ := img.At(origin.X+r2.X()+dx, origin.Y+r2.Y()+dy).RGBA()

			dr := absDiff(uint8(r1c>>8), uint8(r2c>>8))
			dg := absDiff(uint8(g1c>>8), uint8(g2c>>8))
			db := absDiff(uint8(b1c>>8), uint8(b2c>>8))
			diff := float64(dr+dg+db) / 3.0

			totalColorDiff += diff
			if diff > 10 {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)
	avgColorDiff := totalColorDiff / float64(totalPixels)

	return &CompareRegionsResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		SameSize:         r1.AsSpace() == r2.AsSpace(),
		Region1Size:      r1.AsSpace(),
		Region2Size:      r2.AsSpace(),
		AverageColorDiff: math.Round(avgColorDiff*100) / 100,
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
