package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// Screenshot pairs encoded image bytes with the Space they occupy.
//
// The bytes are decoded lazily on the first call to Image and the decoded
// image is cached for the lifetime of the Screenshot. A Screenshot produced by
// Resize also carries the ResizeMetadata that maps its coordinates back to the
// screenshot it was resized from.
//
// A Screenshot is never mutated after construction and is safe for concurrent
// use.
type Screenshot struct {
	data     []byte
	format   string
	space    screenspace.Space
	metadata *screenspace.ResizeMetadata

	decodeOnce sync.Once
	img        image.Image
	decodeErr  error
}

// NewScreenshot wraps encoded image bytes. Only the image header is read to
// determine the space; the pixels are decoded on demand.
//
// Supported formats are PNG, JPEG, GIF, BMP and WebP.
func NewScreenshot(data []byte) (*Screenshot, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	space, err := screenspace.NewSpace(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	return &Screenshot{data: data, format: format, space: space}, nil
}

// FromImage encodes img as PNG and wraps it. The decoded image is kept so the
// first call to Image does not decode it again.
func FromImage(img image.Image) (*Screenshot, error) {
	b := img.Bounds()
	space, err := screenspace.NewSpace(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	s := &Screenshot{data: data, format: "png", space: space}
	s.decodeOnce.Do(func() { s.img = img })
	return s, nil
}

// Bytes returns the encoded image. The slice must not be modified.
func (s *Screenshot) Bytes() []byte { return s.data }

// Format is the name of the encoding, e.g. "png" or "jpeg".
func (s *Screenshot) Format() string { return s.format }

func (s *Screenshot) Space() screenspace.Space { return s.space }

// ResizeMetadata returns the mapping from the screenshot this one was resized
// from, or nil if the screenshot was not produced by Resize.
func (s *Screenshot) ResizeMetadata() *screenspace.ResizeMetadata {
	if s.metadata == nil {
		return nil
	}
	m := *s.metadata
	return &m
}

// Image decodes the screenshot on first use and returns the cached result on
// every later call.
func (s *Screenshot) Image() (image.Image, error) {
	s.decodeOnce.Do(func() {
		s.img, _, s.decodeErr = image.Decode(bytes.NewReader(s.data))
		if s.decodeErr != nil {
			s.decodeErr = fmt.Errorf("failed to decode image: %w", s.decodeErr)
		}
	})
	return s.img, s.decodeErr
}

// Resize produces a new screenshot of the target space using Lanczos
// resampling.
//
// In stretch mode the image fills the target. In letterbox mode it is scaled
// to the metadata's content size and pasted at the metadata's offset on a
// black canvas. The receiver is left untouched; the returned screenshot
// carries the metadata describing the transform.
func (s *Screenshot) Resize(target screenspace.Space, mode screenspace.ResizeMode) (*Screenshot, error) {
	src, err := s.Image()
	if err != nil {
		return nil, err
	}

	meta, err := screenspace.ComputeResizeMetadata(s.space, target, mode)
	if err != nil {
		return nil, err
	}

	var dst image.Image
	switch mode {
	case screenspace.ResizeModeLetterbox:
		scaled := imaging.Resize(src, meta.ScaledWidth(), meta.ScaledHeight(), imaging.Lanczos)
		canvas := imaging.New(target.Width(), target.Height(), color.Black)
		dst = imaging.Paste(canvas, scaled, image.Pt(meta.OffsetX(), meta.OffsetY()))
	default:
		dst = imaging.Resize(src, target.Width(), target.Height(), imaging.Lanczos)
	}

	data, err := encodePNG(dst)
	if err != nil {
		return nil, err
	}

	out := &Screenshot{data: data, format: "png", space: target, metadata: &meta}
	out.decodeOnce.Do(func() { out.img = dst })
	return out, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
