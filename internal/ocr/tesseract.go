package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	disintegration "github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/PoorRican/gui-agent-screenshot-tools/internal/imaging"
	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// Word is one recognized word and where it is.
type Word struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Box locates the word in the screenshot's space.
	Box screenspace.BBox `json:"box"`
}

// Result contains the complete results of text extraction.
type Result struct {
	// FullText is all recognized text with Tesseract's spacing and newlines.
	FullText string `json:"full_text"`

	// Words may be empty if box extraction fails; FullText is still set.
	Words []Word `json:"words"`

	// Space is the space every box in Words belongs to.
	Space screenspace.Space `json:"space"`
}

// ExtractText performs OCR on a whole screenshot.
//
// Word boxes come from Tesseract's RIL_WORD iterator level and are clipped to
// the screenshot. Empty words are dropped.
func ExtractText(shot *imaging.Screenshot, language string) (*Result, error) {
	return recognize(shot.Bytes(), shot.Space(), language)
}

// ExtractTextFromRegion performs OCR on one box of an image.
//
// The box is cropped and recognized on its own, then each word box is moved
// back into the box's parent space. A word found at (10,20) inside a region
// starting at (100,50) is reported at (110,70).
func ExtractTextFromRegion(img image.Image, region screenspace.BBox, language string) (*Result, error) {
	space, err := imaging.SpaceOf(img)
	if err != nil {
		return nil, err
	}
	if space != region.Space() {
		return nil, fmt.Errorf("%w: region %s does not belong to image space %s",
			screenspace.ErrOutOfBounds, region, space)
	}

	origin := img.Bounds().Min
	cropped := disintegration.Crop(img, region.Rect().Add(origin))

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}

	local, err := recognize(buf.Bytes(), region.AsSpace(), language)
	if err != nil {
		return nil, err
	}

	words := make([]Word, 0, len(local.Words))
	for _, w := range local.Words {
		topLeft, err := region.Absolutize(w.Box.TopLeft())
		if err != nil {
			return nil, err
		}
		box, err := screenspace.NewBBox(topLeft.X(), topLeft.Y(), w.Box.Width(), w.Box.Height(), region.Space())
		if err != nil {
			return nil, err
		}
		w.Box = box
		words = append(words, w)
	}

	return &Result{
		FullText: local.FullText,
		Words:    words,
		Space:    region.Space(),
	}, nil
}

func recognize(data []byte, space screenspace.Space, language string) (*Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Result{FullText: text, Words: []Word{}, Space: space}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		bbox, ok := clip(box.Box, space)
		if !ok {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Box:        bbox,
		})
	}

	return &Result{FullText: text, Words: words, Space: space}, nil
}

// DetectTextRegionsResult contains text region locations without the text.
type DetectTextRegionsResult struct {
	Regions []TextRegionBox   `json:"regions"`
	Count   int               `json:"count"`
	Space   screenspace.Space `json:"space"`
}

// TextRegionBox is a detected text block.
type TextRegionBox struct {
	Box screenspace.BBox `json:"box"`

	// Confidence is Tesseract's certainty that the block holds text (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds text blocks in a screenshot without returning the
// recognized text.
//
// It uses Tesseract's RIL_BLOCK level, which groups text into paragraph-like
// blocks. Blocks below minConfidence (0.0 to 1.0) are dropped.
func DetectTextRegions(shot *imaging.Screenshot, minConfidence float64) (*DetectTextRegionsResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(shot.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	regions := make([]TextRegionBox, 0)
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		bbox, ok := clip(box.Box, shot.Space())
		if !ok {
			continue
		}
		regions = append(regions, TextRegionBox{Box: bbox, Confidence: confidence})
	}

	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
		Space:   shot.Space(),
	}, nil
}

// clip converts a Tesseract rectangle into a box of space, dropping the parts
// that fall outside it.
func clip(r image.Rectangle, space screenspace.Space) (screenspace.BBox, bool) {
	r = r.Intersect(image.Rect(0, 0, space.Width(), space.Height()))
	if r.Empty() {
		return screenspace.BBox{}, false
	}
	box, err := screenspace.BBoxFromRect(r, space)
	if err != nil {
		return screenspace.BBox{}, false
	}
	return box, true
}
