package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/PoorRican/gui-agent-screenshot-tools/internal/detection"
	"github.com/PoorRican/gui-agent-screenshot-tools/internal/imaging"
	"github.com/PoorRican/gui-agent-screenshot-tools/internal/ocr"
	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// handleArgs identifies a stored screenshot.
type handleArgs struct {
	Handle string `json:"handle"`
}

// === Screenshot Lifecycle Handlers ===

type screenshotLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleScreenshotLoad(args json.RawMessage) (interface{}, error) {
	var a screenshotLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	handle, shot, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Describe(handle, shot)
}

// screenshotInfoResult extends ScreenshotInfo with the handle of the original
// a derived screenshot maps back to.
type screenshotInfoResult struct {
	*imaging.ScreenshotInfo
	OriginHandle string `json:"origin_handle,omitempty"`
	ImageBase64  string `json:"image_base64,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
}

func (s *Server) describeView(v *view) (*screenshotInfoResult, error) {
	info, err := imaging.Describe(v.handle, v.shot)
	if err != nil {
		return nil, err
	}
	result := &screenshotInfoResult{ScreenshotInfo: info}
	if v.derived() {
		result.OriginHandle = v.originHandle
	}
	return result, nil
}

func (s *Server) handleScreenshotInfo(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	return s.describeView(v)
}

type screenshotResizeArgs struct {
	Handle       string `json:"handle"`
	Target       string `json:"target"`
	Mode         string `json:"mode"`
	IncludeImage bool   `json:"include_image"`
}

// handleScreenshotResize always resizes the original, so every derived
// screenshot is one resize away from it.
func (s *Server) handleScreenshotResize(args json.RawMessage) (interface{}, error) {
	var a screenshotResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	target := s.cfg.DefaultTarget()
	if a.Target != "" {
		if target, err = parseSpaceArg("target", a.Target); err != nil {
			return nil, err
		}
	}
	mode, err := s.parseModeArg(a.Mode)
	if err != nil {
		return nil, err
	}

	resized, err := v.origin.Resize(target, mode)
	if err != nil {
		return nil, err
	}
	handle, err := s.store.Derive(v.originHandle, resized)
	if err != nil {
		return nil, err
	}

	result, err := s.describeView(&view{
		handle:       handle,
		shot:         resized,
		originHandle: v.originHandle,
		origin:       v.origin,
	})
	if err != nil {
		return nil, err
	}
	if a.IncludeImage {
		result.ImageBase64 = base64.StdEncoding.EncodeToString(resized.Bytes())
		result.MimeType = "image/" + resized.Format()
	}
	return result, nil
}

func (s *Server) handleScreenshotEvict(args json.RawMessage) (interface{}, error) {
	var a handleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(a.Handle); err != nil {
		return nil, err
	}
	s.store.Evict(a.Handle)
	return map[string]interface{}{"evicted": a.Handle, "remaining": s.store.Len()}, nil
}

func (s *Server) handleScreenshotClear(args json.RawMessage) (interface{}, error) {
	cleared := s.store.Len()
	s.store.Clear()
	return map[string]interface{}{"cleared": cleared}, nil
}

// === Coordinate Mapping Handlers ===

type screenshotMapCoordinateArgs struct {
	Handle string `json:"handle"`
	pointArgs

	// Window, when set, is where the original screenshot sits on a larger
	// screen of size Screen.
	Window *boxArgs `json:"window,omitempty"`
	Screen string   `json:"screen,omitempty"`
}

type mapCoordinateResult struct {
	// Coordinate is the input in the screenshot's space.
	Coordinate screenspace.Coordinate `json:"coordinate"`

	// Original is the same point in the original screenshot.
	Original screenspace.Coordinate `json:"original"`

	// Screen is the point on the full screen when a window was given.
	Screen *screenspace.Coordinate `json:"screen,omitempty"`

	// InPadding reports that the point fell on letterbox padding and was
	// clamped to the nearest content edge.
	InPadding bool `json:"in_padding"`
}

func (s *Server) handleScreenshotMapCoordinate(args json.RawMessage) (interface{}, error) {
	var a screenshotMapCoordinateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	c, err := a.in(v.space())
	if err != nil {
		return nil, err
	}

	result := &mapCoordinateResult{Coordinate: c, Original: v.toOrigin(c)}
	if meta := v.shot.ResizeMetadata(); v.derived() && meta != nil {
		result.InPadding = !meta.ContentBBox().Contains(c)
	}

	if a.Window != nil {
		screen, err := parseSpaceArg("screen", a.Screen)
		if err != nil {
			return nil, err
		}
		window, err := a.Window.in(screen)
		if err != nil {
			return nil, err
		}
		if window.AsSpace() != v.origin.Space() {
			return nil, fmt.Errorf("%w: window %s does not match screenshot %s",
				errInvalidArgs, window, v.origin.Space())
		}
		abs, err := window.Absolutize(result.Original)
		if err != nil {
			return nil, err
		}
		result.Screen = &abs
	}
	return result, nil
}

// === Region Operation Handlers ===

type screenshotCropArgs struct {
	Handle string `json:"handle"`
	boxArgs
	Scale float64 `json:"scale"`

	// Keep stores the crop as a screenshot of its own.
	Keep bool `json:"keep"`
}

// cropResponse carries the handle of a kept crop. Coordinates found in it
// map back to the original through Region.Absolutize.
type cropResponse struct {
	*imaging.CropResult
	Handle string `json:"handle,omitempty"`
}

// handleScreenshotCrop crops the original at full resolution. The box is given
// in the handle's space.
func (s *Server) handleScreenshotCrop(args json.RawMessage) (interface{}, error) {
	var a screenshotCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	box, err := a.in(v.space())
	if err != nil {
		return nil, err
	}
	result, err := s.cropOrigin(v, box, a.Scale)
	if err != nil {
		return nil, err
	}

	resp := &cropResponse{CropResult: result}
	if a.Keep {
		data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
		if err != nil {
			return nil, err
		}
		shot, err := imaging.NewScreenshot(data)
		if err != nil {
			return nil, err
		}
		resp.Handle = s.store.Put(shot)
	}
	return resp, nil
}

func (s *Server) cropOrigin(v *view, box screenspace.BBox, scale float64) (*imaging.CropResult, error) {
	original, err := v.boxToOrigin(box)
	if err != nil {
		return nil, err
	}
	img, err := v.origin.Image()
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, original, scale)
}

type screenshotCropQuadrantArgs struct {
	Handle string  `json:"handle"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleScreenshotCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a screenshotCropQuadrantArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	box, err := imaging.QuadrantBBox(v.space(), a.Region)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return s.cropOrigin(v, box, a.Scale)
}

// === Color Operation Handlers ===

type screenshotSampleColorArgs struct {
	Handle string `json:"handle"`
	pointArgs
}

func (s *Server) handleScreenshotSampleColor(args json.RawMessage) (interface{}, error) {
	var a screenshotSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	c, err := a.in(v.space())
	if err != nil {
		return nil, err
	}
	img, err := v.origin.Image()
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, v.toOrigin(c))
}

type screenshotSampleColorsMultiArgs struct {
	Handle string `json:"handle"`
	Points []struct {
		pointArgs
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleScreenshotSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a screenshotSampleColorsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		c, err := p.in(v.space())
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		points[i] = imaging.LabeledPoint{At: v.toOrigin(c), Label: p.Label}
	}

	img, err := v.origin.Image()
	if err != nil {
		return nil, err
	}
	return imaging.SampleColorsMulti(img, points)
}

type screenshotDominantColorsArgs struct {
	Handle string   `json:"handle"`
	Count  int      `json:"count"`
	Region *boxArgs `json:"region,omitempty"`
}

func (s *Server) handleScreenshotDominantColors(args json.RawMessage) (interface{}, error) {
	var a screenshotDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	var region *screenspace.BBox
	if a.Region != nil {
		box, err := a.Region.in(v.space())
		if err != nil {
			return nil, err
		}
		original, err := v.boxToOrigin(box)
		if err != nil {
			return nil, err
		}
		region = &original
	}

	img, err := v.origin.Image()
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, region)
}

// === Measurement Operation Handlers ===

type screenshotGridOverlayArgs struct {
	Handle          string `json:"handle"`
	GridSpacing     int    `json:"grid_spacing"`
	ShowCoordinates *bool  `json:"show_coordinates"`
	LabelSpace      string `json:"label_space"`
	GridColor       string `json:"grid_color"`
}

// handleScreenshotGridOverlay draws on the handle's own pixels. Labels read
// in the handle's space or, with label_space "original", in original pixels.
func (s *Server) handleScreenshotGridOverlay(args json.RawMessage) (interface{}, error) {
	var a screenshotGridOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.GridSpacing == 0 {
		a.GridSpacing = s.cfg.Grid.Spacing
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	var label imaging.LabelFunc
	if a.ShowCoordinates == nil || *a.ShowCoordinates {
		switch a.LabelSpace {
		case "", "screenshot":
			label = imaging.PixelLabel
		case "original":
			label = imaging.PixelLabel
			if v.derived() {
				label = imaging.MappedLabel(v.origin.Space(), v.shot.ResizeMetadata())
			}
		default:
			return nil, fmt.Errorf("%w: unknown label_space %q", errInvalidArgs, a.LabelSpace)
		}
	}

	img, err := v.shot.Image()
	if err != nil {
		return nil, err
	}
	result, err := imaging.GridOverlay(img, a.GridSpacing, label, a.GridColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return result, nil
}

type screenshotMeasureDistanceArgs struct {
	Handle string `json:"handle"`
	X1     int    `json:"x1"`
	Y1     int    `json:"y1"`
	X2     int    `json:"x2"`
	Y2     int    `json:"y2"`
}

// handleScreenshotMeasureDistance measures in original pixels.
func (s *Server) handleScreenshotMeasureDistance(args json.RawMessage) (interface{}, error) {
	var a screenshotMeasureDistanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	from, err := pointArgs{X: a.X1, Y: a.Y1}.in(v.space())
	if err != nil {
		return nil, err
	}
	to, err := pointArgs{X: a.X2, Y: a.Y2}.in(v.space())
	if err != nil {
		return nil, err
	}
	return imaging.MeasureDistance(v.toOrigin(from), v.toOrigin(to))
}

type screenshotCheckAlignmentArgs struct {
	Handle    string      `json:"handle"`
	Points    []pointArgs `json:"points"`
	Tolerance int         `json:"tolerance"`
}

func (s *Server) handleScreenshotCheckAlignment(args json.RawMessage) (interface{}, error) {
	var a screenshotCheckAlignmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Tolerance == 0 {
		a.Tolerance = 5
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	points := make([]screenspace.Coordinate, len(a.Points))
	for i, p := range a.Points {
		c, err := p.in(v.space())
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		points[i] = v.toOrigin(c)
	}
	return imaging.CheckAlignment(points, a.Tolerance)
}

type screenshotCompareRegionsArgs struct {
	Handle  string  `json:"handle"`
	Region1 boxArgs `json:"region1"`
	Region2 boxArgs `json:"region2"`
}

func (s *Server) handleScreenshotCompareRegions(args json.RawMessage) (interface{}, error) {
	var a screenshotCompareRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	regions := make([]screenspace.BBox, 2)
	for i, r := range []boxArgs{a.Region1, a.Region2} {
		box, err := r.in(v.space())
		if err != nil {
			return nil, fmt.Errorf("region%d: %w", i+1, err)
		}
		if regions[i], err = v.boxToOrigin(box); err != nil {
			return nil, err
		}
	}

	img, err := v.origin.Image()
	if err != nil {
		return nil, err
	}
	return imaging.CompareRegions(img, regions[0], regions[1])
}

// === OCR and Detection Handlers ===

// forwardedBoxes holds detection boxes found on the original together with the
// same boxes in the handle's space, index for index.
type forwardedBoxes struct {
	Space  screenspace.Space  `json:"space"`
	Boxes  []screenspace.BBox `json:"boxes"`
	Origin string             `json:"origin_handle"`
}

func (s *Server) forward(v *view, boxes []screenspace.BBox) (*forwardedBoxes, error) {
	out := &forwardedBoxes{
		Space:  v.space(),
		Boxes:  make([]screenspace.BBox, len(boxes)),
		Origin: v.originHandle,
	}
	for i, b := range boxes {
		fb, err := v.boxFromOrigin(b)
		if err != nil {
			return nil, err
		}
		out.Boxes[i] = fb
	}
	return out, nil
}

type screenshotOCRArgs struct {
	Handle   string   `json:"handle"`
	Language string   `json:"language"`
	Region   *boxArgs `json:"region,omitempty"`
}

type ocrResponse struct {
	*ocr.Result
	InScreenshot *forwardedBoxes `json:"in_screenshot"`
}

// handleScreenshotOCR reads text from the original at full resolution.
func (s *Server) handleScreenshotOCR(args json.RawMessage) (interface{}, error) {
	var a screenshotOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCR.Language
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	var result *ocr.Result
	if a.Region != nil {
		box, err := a.Region.in(v.space())
		if err != nil {
			return nil, err
		}
		original, err := v.boxToOrigin(box)
		if err != nil {
			return nil, err
		}
		img, err := v.origin.Image()
		if err != nil {
			return nil, err
		}
		result, err = ocr.ExtractTextFromRegion(img, original, a.Language)
		if err != nil {
			return nil, err
		}
	} else {
		result, err = ocr.ExtractText(v.origin, a.Language)
		if err != nil {
			return nil, err
		}
	}

	boxes := make([]screenspace.BBox, len(result.Words))
	for i, w := range result.Words {
		boxes[i] = w.Box
	}
	forwarded, err := s.forward(v, boxes)
	if err != nil {
		return nil, err
	}
	return &ocrResponse{Result: result, InScreenshot: forwarded}, nil
}

type screenshotDetectTextRegionsArgs struct {
	Handle        string  `json:"handle"`
	MinConfidence float64 `json:"min_confidence"`
	Method        string  `json:"method"`
}

type textRegionsResponse struct {
	Method       string          `json:"method"`
	Result       interface{}     `json:"result"`
	InScreenshot *forwardedBoxes `json:"in_screenshot"`
}

// handleScreenshotDetectTextRegions locates text on the original either with
// Tesseract ("ocr", the default) or with the edge density heuristic
// ("heuristic"), which needs no Tesseract installation.
func (s *Server) handleScreenshotDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a screenshotDetectTextRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = s.cfg.OCR.MinConfidence
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}

	var result interface{}
	var boxes []screenspace.BBox
	switch a.Method {
	case "", "ocr":
		a.Method = "ocr"
		r, err := ocr.DetectTextRegions(v.origin, a.MinConfidence)
		if err != nil {
			return nil, err
		}
		for _, region := range r.Regions {
			boxes = append(boxes, region.Box)
		}
		result = r
	case "heuristic":
		img, err := v.origin.Image()
		if err != nil {
			return nil, err
		}
		r, err := detection.DetectTextRegions(img, a.MinConfidence)
		if err != nil {
			return nil, err
		}
		for _, region := range r.Regions {
			boxes = append(boxes, region.Box)
		}
		result = r
	default:
		return nil, fmt.Errorf("%w: unknown method %q", errInvalidArgs, a.Method)
	}

	forwarded, err := s.forward(v, boxes)
	if err != nil {
		return nil, err
	}
	return &textRegionsResponse{Method: a.Method, Result: result, InScreenshot: forwarded}, nil
}

type screenshotDetectRectanglesArgs struct {
	Handle    string  `json:"handle"`
	MinArea   int     `json:"min_area"`
	Tolerance float64 `json:"tolerance"`
}

type rectanglesResponse struct {
	*detection.RectanglesResult
	InScreenshot *forwardedBoxes `json:"in_screenshot"`
}

func (s *Server) handleScreenshotDetectRectangles(args json.RawMessage) (interface{}, error) {
	var a screenshotDetectRectanglesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MinArea == 0 {
		a.MinArea = 100
	}
	if a.Tolerance == 0 {
		a.Tolerance = 0.9
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	img, err := v.origin.Image()
	if err != nil {
		return nil, err
	}
	result, err := detection.DetectRectangles(img, a.MinArea, a.Tolerance)
	if err != nil {
		return nil, err
	}

	boxes := make([]screenspace.BBox, len(result.Rectangles))
	for i, r := range result.Rectangles {
		boxes[i] = r.Box
	}
	forwarded, err := s.forward(v, boxes)
	if err != nil {
		return nil, err
	}
	return &rectanglesResponse{RectanglesResult: result, InScreenshot: forwarded}, nil
}

type screenshotEdgeDetectArgs struct {
	Handle        string `json:"handle"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

// handleScreenshotEdgeDetect works on the handle's own pixels so the edge map
// lines up with the image the client is looking at.
func (s *Server) handleScreenshotEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a screenshotEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 150
	}
	v, err := s.view(a.Handle)
	if err != nil {
		return nil, err
	}
	img, err := v.shot.Image()
	if err != nil {
		return nil, err
	}
	result, err := imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return result, nil
}
