package imaging

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// EdgePixels is the number of white pixels in the edge map.
	EdgePixels int `json:"edge_pixels"`
}

// blurRadius is the Gaussian radius applied before the gradient is taken.
const blurRadius = 1.0

// EdgeMap computes a binary edge map of img.
//
// # Algorithm
//
//  1. Grayscale conversion and a small Gaussian blur to reduce noise
//  2. Sobel gradient magnitude
//  3. Hysteresis thresholding:
//     - Pixels at or above thresholdHigh are strong edges (always kept)
//     - Pixels between thresholdLow and thresholdHigh are weak edges
//     (kept only if an 8-connected neighbor is a strong edge)
//     - Pixels below thresholdLow are discarded
//
// The returned image has a zero origin and the same size as img.
func EdgeMap(img image.Image, thresholdLow, thresholdHigh uint8) *image.Gray {
	if thresholdLow > thresholdHigh {
		thresholdLow, thresholdHigh = thresholdHigh, thresholdLow
	}

	gray := effect.Grayscale(img)
	blurred := blur.Gaussian(gray, blurRadius)
	magnitude := effect.Grayscale(effect.Sobel(blurred))

	strong := segment.Threshold(magnitude, thresholdHigh)
	weak := segment.Threshold(magnitude, thresholdLow)

	b := magnitude.Bounds()
	width, height := b.Dx(), b.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))

	isStrong := func(x, y int) bool {
		return strong.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0xFF
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case isStrong(x, y):
				result.Pix[y*result.Stride+x] = 0xFF
			case weak.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0xFF:
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						if isStrong(clamp(x+kx, 0, width-1), clamp(y+ky, 0, height-1)) {
							result.Pix[y*result.Stride+x] = 0xFF
						}
					}
				}
			}
		}
	}

	return result
}

// EdgeDetect runs EdgeMap and encodes the result as PNG.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Low threshold (0-255). Typical value: 50.
//   - thresholdHigh: High threshold (0-255). Typical value: 150.
//
// # Threshold Selection
//
// Lower thresholds detect more edges but increase noise. Higher thresholds
// produce cleaner results but may miss faint edges.
//
// Recommended starting points:
//   - Clean diagrams and UI screenshots: thresholdLow=50, thresholdHigh=150
//   - Photographs: thresholdLow=100, thresholdHigh=200
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	if thresholdLow < 0 || thresholdLow > 255 || thresholdHigh < 0 || thresholdHigh > 255 {
		return nil, fmt.Errorf("thresholds must be within 0-255, got %d and %d", thresholdLow, thresholdHigh)
	}
	if thresholdLow > thresholdHigh {
		return nil, fmt.Errorf("low threshold %d exceeds high threshold %d", thresholdLow, thresholdHigh)
	}

	edges := EdgeMap(img, uint8(thresholdLow), uint8(thresholdHigh))

	count := 0
	for _, p := range edges.Pix {
		if p == 0xFF {
			count++
		}
	}

	data, err := encodePNG(edges)
	if err != nil {
		return nil, err
	}

	b := edges.Bounds()
	return &EdgeDetectResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		EdgePixels:  count,
	}, nil
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
