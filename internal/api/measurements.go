package api

import (
	"net/http"

	"github.com/jscales4000/LotPlanner-sub000/internal/audit"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
)

// measurementRequest computes a measurement over canvas-pixel points. With
// a ProjectID the project's scale is used and the result is stored in the
// project; otherwise PixelsPerFoot (or the configured default) applies.
type measurementRequest struct {
	Kind          measurement.Kind `json:"type"`
	Points        []geometry.Point `json:"points"`
	PixelsPerFoot geometry.Scale   `json:"pixelsPerFoot,omitempty"`
	ProjectID     string           `json:"projectId,omitempty"`
}

func (s *Server) handleMeasurement(w http.ResponseWriter, r *http.Request) {
	var req measurementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.ProjectID == "" {
		scale := req.PixelsPerFoot
		if !scale.Valid() {
			scale = s.settings.Canvas.PixelsPerFoot
		}
		m, err := measurement.New(req.Kind, req.Points, scale)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
		return
	}

	rec, err := s.projects.Get(r.Context(), req.ProjectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	m, err := measurement.New(req.Kind, req.Points, rec.Project.CanvasSettings.PixelsPerFoot)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rec.Project.Measurements = append(rec.Project.Measurements, m)
	if err := s.saveProject(r, rec); err != nil {
		writeDomainError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.WriteMeasurement(rec.ID, m)
	}
	s.record(r.Context(), rec.ID, audit.ActionMeasured, map[string]any{
		"measurementId": m.ID,
		"type":          string(m.Kind),
		"value":         m.Value(),
	})
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) saveProject(r *http.Request, rec *layout.ProjectRecord) error {
	if err := s.projects.Update(r.Context(), rec); err != nil {
		s.logger.Error("saving project", "project_id", rec.ID, "error", err)
		return err
	}
	return nil
}
