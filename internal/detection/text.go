package detection

import (
	"image"
	"math"
	"sort"

	"github.com/PoorRican/gui-agent-screenshot-tools/internal/imaging"
	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// TextRegion represents a detected text region
type TextRegion struct {
	Box        screenspace.BBox `json:"box"`
	Confidence float64          `json:"confidence"`
	Area       int              `json:"area"`
}

// TextRegionsResult contains detected text regions
type TextRegionsResult struct {
	Regions []TextRegion      `json:"regions"`
	Count   int               `json:"count"`
	Space   screenspace.Space `json:"space"`
}

// textWindows are the sliding window sizes, from small to large text.
var textWindows = []image.Point{
	{X: 80, Y: 25},
	{X: 100, Y: 30},
	{X: 150, Y: 40},
	{X: 200, Y: 50},
}

// DetectTextRegions finds regions likely to contain text
// This is a heuristic-based approach that looks for areas with high edge density
// and appropriate aspect ratios typical of text
func DetectTextRegions(img image.Image, minConfidence float64) (*TextRegionsResult, error) {
	space, err := imaging.SpaceOf(img)
	if err != nil {
		return nil, err
	}
	width, height := space.Width(), space.Height()
	edges := edgeMask(img)

	candidates := make([]image.Rectangle, 0)
	confidences := make([]float64, 0)

	for _, ws := range textWindows {
		stepX := ws.X / 2
		stepY := ws.Y / 2

		for y := 0; y <= height-ws.Y; y += stepY {
			for x := 0; x <= width-ws.X; x += stepX {
				edgeCount := 0
				for wy := 0; wy < ws.Y; wy++ {
					for wx := 0; wx < ws.X; wx++ {
						if edges[y+wy][x+wx] {
							edgeCount++
						}
					}
				}

				density := float64(edgeCount) / float64(ws.X*ws.Y)

				// Text has medium edge density: not too sparse, not too dense
				if density < 0.05 || density > 0.4 {
					continue
				}

				horizontalScore := calculateHorizontalScore(edges, x, y, ws.X, ws.Y)
				confidence := horizontalScore * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence >= minConfidence {
					candidates = append(candidates, image.Rect(x, y, x+ws.X, y+ws.Y))
					confidences = append(confidences, math.Round(confidence*1000)/1000)
				}
			}
		}
	}

	merged, mergedConfidence := mergeOverlappingRegions(candidates, confidences)

	regions := make([]TextRegion, 0, len(merged))
	for i, r := range merged {
		box, err := screenspace.BBoxFromRect(r, space)
		if err != nil {
			return nil, err
		}
		regions = append(regions, TextRegion{
			Box:        box,
			Confidence: mergedConfidence[i],
			Area:       box.Width() * box.Height(),
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Confidence > regions[j].Confidence
	})

	return &TextRegionsResult{
		Regions: regions,
		Count:   len(regions),
		Space:   space,
	}, nil
}

// calculateHorizontalScore calculates how "horizontal" the edge distribution is
func calculateHorizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	// Text typically has more horizontal structure
	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions folds each rectangle into the first merged region it
// overlaps. A merged region keeps the highest confidence of its members.
func mergeOverlappingRegions(rects []image.Rectangle, confidences []float64) ([]image.Rectangle, []float64) {
	merged := make([]image.Rectangle, 0)
	mergedConfidence := make([]float64, 0)

	for i, r := range rects {
		foundMerge := false
		for j := range merged {
			if r.Overlaps(merged[j]) {
				merged[j] = merged[j].Union(r)
				mergedConfidence[j] = math.Max(mergedConfidence[j], confidences[i])
				foundMerge = true
				break
			}
		}
		if !foundMerge {
			merged = append(merged, r)
			mergedConfidence = append(mergedConfidence, confidences[i])
		}
	}

	return merged, mergedConfidence
}
