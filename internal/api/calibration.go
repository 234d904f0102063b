package api

import (
	"fmt"
	"net/http"

	"github.com/jscales4000/LotPlanner-sub000/internal/audit"
	"github.com/jscales4000/LotPlanner-sub000/internal/calibration"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
)

type calibrationRequest struct {
	calibration.Request
	ProjectID     string         `json:"projectId,omitempty"`
	PixelsPerFoot geometry.Scale `json:"pixelsPerFoot,omitempty"`
}

// handleCalibration applies a reference-distance correction.
//
// Without a project only the global target is supported and the corrected
// scale is returned. With a project the correction is stored: a global
// calibration rescales pixels per foot and re-derives every stored
// measurement, a background calibration rescales one image.
func (s *Server) handleCalibration(w http.ResponseWriter, r *http.Request) {
	var req calibrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	factor, target, err := s.settings.Calibrator.Factor(req.Request)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if req.ProjectID == "" {
		if target != calibration.TargetGlobal {
			writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation,
				"background calibration requires a projectId")
			return
		}
		scale := req.PixelsPerFoot
		if !scale.Valid() {
			scale = s.settings.Canvas.PixelsPerFoot
		}
		writeJSON(w, http.StatusOK, calibration.Result{
			Factor: factor,
			Target: target,
			Scale:  scale.Corrected(factor),
		})
		return
	}

	rec, err := s.projects.Get(r.Context(), req.ProjectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	req.Request.Target = target
	result, err := s.applyCalibration(rec.Project, target, req.Request)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.saveProject(r, rec); err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info("calibration applied",
		"project_id", rec.ID,
		"target", result.Target,
		"factor", result.Factor,
	)
	s.hub.Broadcast(ChannelCalibrationApplied, rec.ID, map[string]any{
		"projectId": rec.ID,
		"result":    result,
	})
	if s.events != nil && s.events.IsConnected() {
		if err := s.events.PublishCalibration(rec.ID, result); err != nil {
			s.logger.Warn("publishing calibration", "project_id", rec.ID, "error", err)
		}
	}
	if target == calibration.TargetGlobal {
		s.afterChange(rec)
	}
	details := map[string]any{
		"target": string(result.Target),
		"factor": result.Factor,
	}
	if result.ImageID != "" {
		details["imageId"] = result.ImageID
	} else {
		details["pixelsPerFoot"] = float64(result.Scale)
	}
	s.record(r.Context(), rec.ID, audit.ActionCalibrated, details)

	writeJSON(w, http.StatusOK, result)
}

// applyCalibration corrects p's scale or one of its images in place.
func (s *Server) applyCalibration(p *layout.Project, target calibration.Target, req calibration.Request) (calibration.Result, error) {
	cal := s.settings.Calibrator

	if target == calibration.TargetBackground {
		img, ok := p.Image(req.ImageID)
		if !ok {
			return calibration.Result{}, fmt.Errorf("%w: %q", layout.ErrImageNotFound, req.ImageID)
		}
		factor, err := cal.ApplyImage(img, req)
		if err != nil {
			return calibration.Result{}, err
		}
		x, y := img.ImageScale()
		return calibration.Result{
			Factor:  factor,
			Target:  target,
			Scale:   p.CanvasSettings.PixelsPerFoot,
			ImageID: img.ID,
			ScaleX:  x,
			ScaleY:  y,
		}, nil
	}

	scale, factor, err := cal.ApplyGlobal(p.CanvasSettings.PixelsPerFoot, req)
	if err != nil {
		return calibration.Result{}, err
	}
	p.CanvasSettings.PixelsPerFoot = scale
	for i := range p.Measurements {
		p.Measurements[i].Recompute(scale)
	}
	return calibration.Result{Factor: factor, Target: target, Scale: scale}, nil
}
