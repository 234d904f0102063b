package api

import (
	"net/http"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/viewport"
)

type zoomRequest struct {
	State      viewport.State `json:"state"`
	WheelDelta float64        `json:"wheelDelta"`
	Pointer    geometry.Point `json:"pointer"`

	// Step is "in" or "out" for button zooms around the viewport centre.
	Step     string        `json:"step,omitempty"`
	Viewport viewport.Size `json:"viewport"`
}

type panRequest struct {
	State viewport.State `json:"state"`
	DX    float64        `json:"dx"`
	DY    float64        `json:"dy"`
}

type fitRequest struct {
	ProjectID string            `json:"projectId,omitempty"`
	Bounds    []geometry.Bounds `json:"bounds,omitempty"`
	Viewport  viewport.Size     `json:"viewport"`
}

func (s *Server) handleViewportZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	o := s.settings.Viewport
	var next viewport.State
	switch req.Step {
	case "in":
		next = viewport.ZoomIn(req.State, req.Viewport, o)
	case "out":
		next = viewport.ZoomOut(req.State, req.Viewport, o)
	case "":
		next = viewport.ZoomAt(req.State, req.WheelDelta, req.Pointer, o)
	default:
		writeBadRequest(w, "step must be \"in\" or \"out\"")
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleViewportPan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, viewport.Pan(req.State, req.DX, req.DY))
}

type resetRequest struct {
	ProjectID string        `json:"projectId,omitempty"`
	Viewport  viewport.Size `json:"viewport"`
}

// handleViewportReset centres the project's canvas, or the configured
// canvas when no project is named.
func (s *Server) handleViewportReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	o := s.settings.Viewport
	if req.ProjectID != "" {
		rec, err := s.projects.Get(r.Context(), req.ProjectID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		o = projectViewport(o, rec.Project.CanvasSettings)
	}
	writeJSON(w, http.StatusOK, viewport.Reset(req.Viewport, o))
}

// handleViewportFit frames either a stored project's footprints or the
// bounds supplied in the request.
func (s *Server) handleViewportFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		writeBadRequest(w, "viewport width and height must be positive")
		return
	}

	o := s.settings.Viewport
	content := req.Bounds
	if req.ProjectID != "" {
		rec, err := s.projects.Get(r.Context(), req.ProjectID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		content = rec.Project.Session().Footprints(rec.Project.CanvasSettings.PixelsPerFoot)
		o = projectViewport(o, rec.Project.CanvasSettings)
	}
	writeJSON(w, http.StatusOK, viewport.FitToContent(content, req.Viewport, o))
}

// projectViewport returns o framing the project's own canvas.
func projectViewport(o viewport.Options, c layout.CanvasSettings) viewport.Options {
	if c.Width > 0 && c.Height > 0 {
		o.Canvas = viewport.Size{Width: c.Width, Height: c.Height}
	}
	return o
}
