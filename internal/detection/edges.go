package detection

import (
	"image"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"
)

// edgeThreshold is the grayscale step that marks a pixel as an edge.
const edgeThreshold = 30

// edgeMask marks pixels whose grayscale value differs from the right or lower
// neighbour by more than edgeThreshold. Border pixels are never edges.
//
// A one-pixel forward difference keeps outlines one pixel wide, which the
// rectangularity score depends on.
func edgeMask(img image.Image) [][]bool {
	gray := effect.Grayscale(img)
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		row := gray.Pix[y*gray.Stride:]
		below := gray.Pix[(y+1)*gray.Stride:]
		for x := 1; x < width-1; x++ {
			c := int(row[x])
			if absInt(c-int(row[x+1])) > edgeThreshold || absInt(c-int(below[x])) > edgeThreshold {
				edges[y][x] = true
			}
		}
	}
	return edges
}

// findContours groups 8-connected edge pixels. Groups smaller than 10 pixels
// are discarded as noise.
func findContours(edges [][]bool) [][]image.Point {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	contours := make([][]image.Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] && !visited[y][x] {
				contour := floodFill(edges, visited, image.Pt(x, y))
				if len(contour) >= 10 {
					contours = append(contours, contour)
				}
			}
		}
	}
	return contours
}

// floodFill collects the connected edge pixels reachable from start. It is
// stack based so large contours cannot overflow the goroutine stack.
func floodFill(edges, visited [][]bool, start image.Point) []image.Point {
	height := len(edges)
	width := len(edges[0])
	contour := make([]image.Point, 0)
	stack := []image.Point{start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !edges[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
				}
			}
		}
	}
	return contour
}

// sampleColorHex returns the "#RRGGBB" colour of the pixel at (x, y) relative
// to the image origin.
func sampleColorHex(img image.Image, x, y int) string {
	origin := img.Bounds().Min
	c, _ := colorful.MakeColor(img.At(origin.X+x, origin.Y+y))
	return strings.ToUpper(c.Clamped().Hex())
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
