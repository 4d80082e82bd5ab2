package imaging

import (
	"image/color"
	"math"
	"testing"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// pts builds coordinates in a 100x100 space.
func pts(xy ...[2]int) []screenspace.Coordinate {
	space := screenspace.MustSpace(100, 100)
	out := make([]screenspace.Coordinate, 0, len(xy))
	for _, p := range xy {
		out = append(out, screenspace.MustCoordinate(p[0], p[1], space))
	}
	return out
}

func box100(x, y, w, h int) screenspace.BBox {
	return screenspace.MustBBox(x, y, w, h, screenspace.MustSpace(100, 100))
}

func TestMeasureDistance(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		wantDistance   float64
		wantDeltaX     int
		wantDeltaY     int
		wantAngle      float64
	}{
		{"horizontal right", 0, 50, 99, 50, 99, 99, 0, 0},
		{"horizontal left", 99, 50, 0, 50, 99, -99, 0, 180},
		{"vertical down", 50, 0, 50, 99, 99, 0, 99, 90},
		{"vertical up", 50, 99, 50, 0, 99, 0, -99, -90},
		{"diagonal", 0, 0, 99, 99, 140.01, 99, 99, 45},
		{"same point", 50, 50, 50, 50, 0, 0, 0, 0},
		{"3-4-5 triangle", 0, 0, 3, 4, 5, 3, 4, 53.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pts([2]int{tt.x1, tt.y1}, [2]int{tt.x2, tt.y2})
			result, err := MeasureDistance(p[0], p[1])
			if err != nil {
				t.Fatalf("MeasureDistance failed: %v", err)
			}

			if result.DeltaX != tt.wantDeltaX {
				t.Errorf("DeltaX: got %d, want %d", result.DeltaX, tt.wantDeltaX)
			}
			if result.DeltaY != tt.wantDeltaY {
				t.Errorf("DeltaY: got %d, want %d", result.DeltaY, tt.wantDeltaY)
			}
			if math.Abs(result.DistancePixels-tt.wantDistance) > 0.1 {
				t.Errorf("DistancePixels: got %.2f, want %.2f", result.DistancePixels, tt.wantDistance)
			}
			if math.Abs(result.AngleDegrees-tt.wantAngle) > 0.5 {
				t.Errorf("AngleDegrees: got %.1f, want %.1f", result.AngleDegrees, tt.wantAngle)
			}
		})
	}
}

func TestMeasureDistance_PercentValues(t *testing.T) {
	space := screenspace.MustSpace(200, 100)

	result, err := MeasureDistance(
		screenspace.MustCoordinate(0, 0, space),
		screenspace.MustCoordinate(100, 50, space),
	)
	if err != nil {
		t.Fatalf("MeasureDistance failed: %v", err)
	}

	// ~111.8 pixels: ~56% of the width and ~112% of the height
	if result.DistancePercentWidth < 50 || result.DistancePercentWidth > 60 {
		t.Errorf("DistancePercentWidth: got %.1f, expected ~56", result.DistancePercentWidth)
	}
	if result.DistancePercentHeight < 100 || result.DistancePercentHeight > 120 {
		t.Errorf("DistancePercentHeight: got %.1f, expected ~112", result.DistancePercentHeight)
	}
}

func TestMeasureDistance_MixedSpaces(t *testing.T) {
	a := screenspace.MustCoordinate(0, 0, screenspace.MustSpace(100, 100))
	b := screenspace.MustCoordinate(0, 0, screenspace.MustSpace(200, 100))

	if _, err := MeasureDistance(a, b); err == nil {
		t.Error("MeasureDistance should fail across spaces")
	}
}

func TestCheckAlignment(t *testing.T) {
	tests := []struct {
		name      string
		points    []screenspace.Coordinate
		tolerance int
		wantHoriz bool
		wantVert  bool
	}{
		{"horizontal line", pts([2]int{10, 50}, [2]int{50, 50}, [2]int{90, 50}), 1, true, false},
		{"vertical line", pts([2]int{50, 10}, [2]int{50, 50}, [2]int{50, 90}), 1, false, true},
		{"both aligned (single point)", pts([2]int{50, 50}), 1, true, true},
		{"both aligned (empty)", nil, 1, true, true},
		{"diagonal", pts([2]int{10, 10}, [2]int{50, 50}, [2]int{90, 90}), 1, false, false},
		{"nearly horizontal", pts([2]int{10, 50}, [2]int{50, 51}, [2]int{90, 49}), 5, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CheckAlignment(tt.points, tt.tolerance)
			if err != nil {
				t.Fatalf("CheckAlignment failed: %v", err)
			}

			if result.HorizontallyAligned != tt.wantHoriz {
				t.Errorf("HorizontallyAligned: got %v, want %v", result.HorizontallyAligned, tt.wantHoriz)
			}
			if result.VerticallyAligned != tt.wantVert {
				t.Errorf("VerticallyAligned: got %v, want %v", result.VerticallyAligned, tt.wantVert)
			}
		})
	}
}

func TestCheckAlignment_Averages(t *testing.T) {
	result, err := CheckAlignment(pts([2]int{10, 20}, [2]int{30, 40}, [2]int{50, 60}), 1)
	if err != nil {
		t.Fatalf("CheckAlignment failed: %v", err)
	}

	if result.AverageX != 30 {
		t.Errorf("AverageX: got %.2f, want 30", result.AverageX)
	}
	if result.AverageY != 40 {
		t.Errorf("AverageY: got %.2f, want 40", result.AverageY)
	}
}

func TestCheckAlignment_MixedSpaces(t *testing.T) {
	points := append(pts([2]int{10, 20}), screenspace.MustCoordinate(10, 20, screenspace.MustSpace(50, 50)))
	if _, err := CheckAlignment(points, 1); err == nil {
		t.Error("CheckAlignment should fail across spaces")
	}
}

func TestCompareRegions(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name         string
		r1, r2       screenspace.BBox
		wantSimilar  bool
		wantSameSize bool
	}{
		{"identical regions", box100(0, 0, 50, 50), box100(0, 0, 50, 50), true, true},
		{"different regions (red vs green)", box100(0, 0, 50, 50), box100(50, 0, 50, 50), false, true},
		// overlap is identical (both red top-left)
		{"different sizes", box100(0, 0, 50, 50), box100(0, 0, 30, 30), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CompareRegions(img, tt.r1, tt.r2)
			if err != nil {
				t.Fatalf("CompareRegions failed: %v", err)
			}

			if result.SameSize != tt.wantSameSize {
				t.Errorf("SameSize: got %v, want %v", result.SameSize, tt.wantSameSize)
			}

			highSimilarity := result.SimilarityScore > 0.9
			if highSimilarity != tt.wantSimilar {
				t.Errorf("SimilarityScore: got %.3f, wantSimilar=%v", result.SimilarityScore, tt.wantSimilar)
			}
		})
	}
}

func TestCompareRegions_Identical(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{128, 128, 128, 255})

	result, err := CompareRegions(img, box100(10, 10, 30, 30), box100(50, 50, 30, 30))
	if err != nil {
		t.Fatalf("CompareRegions failed: %v", err)
	}

	if result.SimilarityScore != 1.0 {
		t.Errorf("SimilarityScore for identical regions: got %.3f, want 1.0", result.SimilarityScore)
	}
	if result.PixelsDifferent != 0 {
		t.Errorf("PixelsDifferent: got %d, want 0", result.PixelsDifferent)
	}
	if result.AverageColorDiff != 0 {
		t.Errorf("AverageColorDiff: got %.2f, want 0", result.AverageColorDiff)
	}
}

func TestCompareRegions_RegionSizes(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	result, err := CompareRegions(img, box100(0, 0, 30, 40), box100(50, 50, 20, 30))
	if err != nil {
		t.Fatalf("CompareRegions failed: %v", err)
	}

	if result.Region1Size != screenspace.MustSpace(30, 40) {
		t.Errorf("Region1Size: got %s, want 30x40", result.Region1Size)
	}
	if result.Region2Size != screenspace.MustSpace(20, 30) {
		t.Errorf("Region2Size: got %s, want 20x30", result.Region2Size)
	}

	// min(30,20) * min(40,30) = 600
	if result.TotalPixels != 600 {
		t.Errorf("TotalPixels: got %d, want 600", result.TotalPixels)
	}
}

func TestCompareRegions_WrongSpace(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	other := screenspace.MustBBox(0, 0, 10, 10, screenspace.MustSpace(50, 50))

	if _, err := CompareRegions(img, box100(0, 0, 10, 10), other); err == nil {
		t.Error("CompareRegions should fail for a region from another space")
	}
}

func TestAbsDiff(t *testing.T) {
	tests := []struct {
		a, b uint8
		want int
	}{
		{100, 50, 50},
		{50, 100, 50},
		{0, 255, 255},
		{255, 0, 255},
		{128, 128, 0},
	}

	for _, tt := range tests {
		got := absDiff(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("absDiff(%d, %d): got %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
