package imaging

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// CropResult contains the cropped image data
type CropResult struct {
	// Region is the cropped box in the source image's space. Coordinates found
	// in the crop can be placed back into the source with Region.Absolutize.
	Region      screenspace.BBox `json:"region"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

// Crop extracts box from img and optionally rescales it with Lanczos
// resampling. box must be expressed in the space of img.
func Crop(img image.Image, box screenspace.BBox, scale float64) (*CropResult, error) {
	if err := checkSpace(img, box.Space()); err != nil {
		return nil, err
	}

	r := box.Rect().Add(img.Bounds().Min)
	cropped := imaging.Crop(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	data, err := encodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Region:      box,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// QuadrantBBox returns the named region of space: "top-left", "top-right",
// "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half",
// "right-half" or "center" (the middle 50% on both axes). On an axis one
// pixel long every region spans that pixel.
func QuadrantBBox(space screenspace.Space, region string) (screenspace.BBox, error) {
	w := space.Width()
	h := space.Height()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return screenspace.BBox{}, fmt.Errorf("unknown region: %s", region)
	}

	// A region of a 1-pixel axis still covers that pixel.
	return screenspace.NewBBox(x1, y1, max(1, x2-x1), max(1, y2-y1), space)
}

// CropQuadrant extracts a named region from an image
func CropQuadrant(img image.Image, region string, scale float64) (*CropResult, error) {
	space, err := SpaceOf(img)
	if err != nil {
		return nil, err
	}
	box, err := QuadrantBBox(space, region)
	if err != nil {
		return nil, err
	}
	return Crop(img, box, scale)
}

// SpaceOf returns the space covered by img.
func SpaceOf(img image.Image) (screenspace.Space, error) {
	b := img.Bounds()
	return screenspace.NewSpace(b.Dx(), b.Dy())
}

// checkSpace fails when space does not describe img.
func checkSpace(img image.Image, space screenspace.Space) error {
	b := img.Bounds()
	if b.Dx() != space.Width() || b.Dy() != space.Height() {
		return fmt.Errorf("%w: region is in space %s but image is %dx%d",
			screenspace.ErrOutOfBounds, space, b.Dx(), b.Dy())
	}
	return nil
}
