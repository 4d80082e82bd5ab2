package detection

import (
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func emptyMask(width, height int) [][]bool {
	edges := make([][]bool, height)
	for y := range edges {
		edges[y] = make([]bool, width)
	}
	return edges
}

func TestEdgeMask(t *testing.T) {
	// Black left half, white right half
	img := createTestImage(50, 50, color.White)
	for y := 0; y < 50; y++ {
		for x := 0; x < 25; x++ {
			img.Set(x, y, color.Black)
		}
	}

	edges := edgeMask(img)

	if len(edges) != 50 || len(edges[0]) != 50 {
		t.Fatalf("mask size: got %dx%d, want 50x50", len(edges[0]), len(edges))
	}
	for y := 1; y < 49; y++ {
		if !edges[y][24] {
			t.Errorf("expected edge at (24,%d)", y)
		}
		if edges[y][25] || edges[y][10] {
			t.Errorf("unexpected edge in row %d", y)
		}
	}
	// Border pixels are never edges
	if edges[0][24] || edges[49][24] {
		t.Error("border rows should not contain edges")
	}
}

func TestEdgeMask_UniformImage(t *testing.T) {
	img := createTestImage(50, 50, color.RGBA{128, 128, 128, 255})

	edges := edgeMask(img)

	edgeCount := 0
	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				edgeCount++
			}
		}
	}

	if edgeCount != 0 {
		t.Errorf("Uniform image should have 0 edges, got %d", edgeCount)
	}
}

func TestEdgeMask_SubImage(t *testing.T) {
	img := createTestImage(60, 60, color.White)
	for y := 0; y < 60; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.Black)
		}
	}
	sub := img.SubImage(image.Rect(10, 10, 50, 50))

	edges := edgeMask(sub)

	if len(edges) != 40 || len(edges[0]) != 40 {
		t.Fatalf("mask size: got %dx%d, want 40x40", len(edges[0]), len(edges))
	}
	// x=29 in the parent is x=19 in the sub-image
	if !edges[20][19] {
		t.Error("expected edge at the sub-image relative column 19")
	}
}

func TestFindContours(t *testing.T) {
	edges := emptyMask(20, 20)

	// Small square outline
	for x := 5; x <= 15; x++ {
		edges[5][x] = true
		edges[15][x] = true
	}
	for y := 5; y <= 15; y++ {
		edges[y][5] = true
		edges[y][15] = true
	}

	contours := findContours(edges)

	if len(contours) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(contours))
	}
	if len(contours[0]) != 40 {
		t.Errorf("Expected 40 contour pixels, got %d", len(contours[0]))
	}
}

func TestFindContours_DropsNoise(t *testing.T) {
	edges := emptyMask(20, 20)
	edges[3][3] = true
	edges[3][4] = true

	if contours := findContours(edges); len(contours) != 0 {
		t.Errorf("Expected small groups to be dropped, got %d contours", len(contours))
	}
}

func TestFindContours_Empty(t *testing.T) {
	if contours := findContours(emptyMask(20, 20)); len(contours) != 0 {
		t.Errorf("Expected 0 contours in empty edge image, got %d", len(contours))
	}
	if contours := findContours(nil); len(contours) != 0 {
		t.Errorf("Expected 0 contours for a nil mask, got %d", len(contours))
	}
}

func TestFloodFill(t *testing.T) {
	edges := emptyMask(10, 10)
	visited := emptyMask(10, 10)

	edges[5][5] = true
	edges[5][6] = true
	edges[6][5] = true
	edges[6][6] = true
	// diagonal neighbour is 8-connected
	edges[7][7] = true

	contour := floodFill(edges, visited, image.Pt(5, 5))

	if len(contour) != 5 {
		t.Errorf("Expected 5 points in contour, got %d", len(contour))
	}
	if !visited[5][5] || !visited[6][6] || !visited[7][7] {
		t.Error("Flood fill should mark all visited points")
	}
}

func TestSampleColorHex(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.RGBA{255, 128, 64, 255})

	if hex := sampleColorHex(img, 5, 5); hex != "#FF8040" {
		t.Errorf("sampleColorHex: got %s, want #FF8040", hex)
	}

	// Coordinates are relative to the image origin
	sub := img.SubImage(image.Rect(5, 5, 10, 10))
	if hex := sampleColorHex(sub, 0, 0); hex != "#FF8040" {
		t.Errorf("sampleColorHex on sub-image: got %s, want #FF8040", hex)
	}
}
