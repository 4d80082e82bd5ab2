package server

import (
	"encoding/json"
	"fmt"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// === Coordinate Math Handlers ===

type spaceResizeMetadataArgs struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Mode   string `json:"mode"`
}

// resizeMetadataResult adds the content box to the metadata so a client can
// see where padding starts without recomputing it.
type resizeMetadataResult struct {
	Metadata   screenspace.ResizeMetadata `json:"metadata"`
	ContentBox screenspace.BBox           `json:"content_box"`
}

func (s *Server) handleSpaceResizeMetadata(args json.RawMessage) (interface{}, error) {
	var a spaceResizeMetadataArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	source, err := parseSpaceArg("source", a.Source)
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
	meta, err := screenspace.ComputeResizeMetadata(source, target, mode)
	if err != nil {
		return nil, err
	}
	return &resizeMetadataResult{Metadata: meta, ContentBox: meta.ContentBBox()}, nil
}

// resizeArgs optionally describe how the space a value is given in was
// produced. When Mode is set the value's space is treated as the target of a
// resize from ResizedFrom, which defaults to the requested target space.
type resizeArgs struct {
	Mode        string `json:"mode"`
	ResizedFrom string `json:"resized_from"`
}

// metadata returns the resize metadata described by r, or nil when no mode
// was given.
func (r resizeArgs) metadata(space, target screenspace.Space) (*screenspace.ResizeMetadata, error) {
	if r.Mode == "" {
		if r.ResizedFrom != "" {
			return nil, fmt.Errorf("%w: resized_from requires mode", errInvalidArgs)
		}
		return nil, nil
	}
	mode, err := screenspace.ParseResizeMode(r.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	source := target
	if r.ResizedFrom != "" {
		if source, err = parseSpaceArg("resized_from", r.ResizedFrom); err != nil {
			return nil, err
		}
	}
	meta, err := screenspace.ComputeResizeMetadata(source, space, mode)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

type coordinateToSpaceArgs struct {
	pointArgs
	resizeArgs
	Space  string `json:"space"`
	Target string `json:"target"`
}

func (s *Server) handleCoordinateToSpace(args json.RawMessage) (interface{}, error) {
	var a coordinateToSpaceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	space, err := parseSpaceArg("space", a.Space)
	if err != nil {
		return nil, err
	}
	target, err := parseSpaceArg("target", a.Target)
	if err != nil {
		return nil, err
	}
	c, err := a.in(space)
	if err != nil {
		return nil, err
	}
	meta, err := a.metadata(space, target)
	if err != nil {
		return nil, err
	}
	return c.ToSpace(target, meta), nil
}

type coordinateForwardArgs struct {
	pointArgs
	Source string `json:"source"`
	Target string `json:"target"`
	Mode   string `json:"mode"`
}

func (s *Server) handleCoordinateForward(args json.RawMessage) (interface{}, error) {
	var a coordinateForwardArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	source, err := parseSpaceArg("source", a.Source)
	if err != nil {
		return nil, err
	}
	target, err := parseSpaceArg("target", a.Target)
	if err != nil {
		return nil, err
	}
	mode, err := s.parseModeArg(a.Mode)
	if err != nil {
		return nil, err
	}
	c, err := a.in(source)
	if err != nil {
		return nil, err
	}
	meta, err := screenspace.ComputeResizeMetadata(source, target, mode)
	if err != nil {
		return nil, err
	}
	return meta.ForwardTransformCoordinate(c), nil
}

type bboxToSpaceArgs struct {
	boxArgs
	resizeArgs
	Space  string `json:"space"`
	Target string `json:"target"`
}

func (s *Server) handleBBoxToSpace(args json.RawMessage) (interface{}, error) {
	var a bboxToSpaceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	space, err := parseSpaceArg("space", a.Space)
	if err != nil {
		return nil, err
	}
	target, err := parseSpaceArg("target", a.Target)
	if err != nil {
		return nil, err
	}
	b, err := a.in(space)
	if err != nil {
		return nil, err
	}
	meta, err := a.metadata(space, target)
	if err != nil {
		return nil, err
	}
	return b.ToSpace(target, meta)
}

// windowArgs names a window box inside a parent space and a point.
type windowArgs struct {
	Window boxArgs `json:"window"`
	Space  string  `json:"space"`
	pointArgs
}

func (a windowArgs) window() (screenspace.BBox, error) {
	space, err := parseSpaceArg("space", a.Space)
	if err != nil {
		return screenspace.BBox{}, err
	}
	return a.Window.in(space)
}

func (s *Server) handleBBoxLocalize(args json.RawMessage) (interface{}, error) {
	var a windowArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	window, err := a.window()
	if err != nil {
		return nil, err
	}
	c, err := a.in(window.Space())
	if err != nil {
		return nil, err
	}
	return window.Localize(c)
}

func (s *Server) handleBBoxAbsolutize(args json.RawMessage) (interface{}, error) {
	var a windowArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	window, err := a.window()
	if err != nil {
		return nil, err
	}
	c, err := a.in(window.AsSpace())
	if err != nil {
		return nil, err
	}
	return window.Absolutize(c)
}
