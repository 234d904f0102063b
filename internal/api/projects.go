package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jscales4000/LotPlanner-sub000/internal/audit"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
)

// Channel names for WebSocket broadcasts.
const (
	ChannelViolationsChanged  = "layout.violations_changed"
	ChannelCalibrationApplied = "layout.calibration_applied"
	ChannelProjectDeleted     = "layout.project_deleted"
)

// projectSummary is one entry of the project list.
type projectSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EquipmentCount int       `json:"equipmentCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// projectResponse is a stored project plus any import warnings.
type projectResponse struct {
	*layout.ProjectRecord
	Warnings []string `json:"warnings,omitempty"`
}

// violationsResponse is the body of GET /projects/{id}/violations and the
// payload of ChannelViolationsChanged broadcasts.
type violationsResponse struct {
	ProjectID  string                `json:"projectId"`
	Summary    violation.Summary     `json:"summary"`
	Violations []violation.Violation `json:"violations"`
	Dangling   []string              `json:"dangling,omitempty"`
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	records, err := s.projects.List(r.Context())
	if err != nil {
		s.logger.Error("listing projects", "error", err)
		writeInternalError(w, "failed to list projects")
		return
	}

	out := make([]projectSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, projectSummary{
			ID:             rec.ID,
			Name:           rec.Name,
			EquipmentCount: len(rec.Project.PlacedEquipment),
			CreatedAt:      rec.CreatedAt,
			UpdatedAt:      rec.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": out,
		"count":    len(out),
	})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	p := layout.NewProject(req.Name)
	p.Metadata.Description = req.Description
	p.CanvasSettings = s.settings.Canvas

	rec := &layout.ProjectRecord{Project: p}
	if err := s.projects.Create(r.Context(), rec); err != nil {
		s.logger.Error("creating project", "error", err)
		writeDomainError(w, err)
		return
	}
	s.logger.Info("project created", "project_id", rec.ID, "name", rec.Name)
	s.record(r.Context(), rec.ID, audit.ActionCreated, map[string]any{"name": rec.Name})
	writeJSON(w, http.StatusCreated, projectResponse{ProjectRecord: rec})
}

func (s *Server) handleImportProject(w http.ResponseWriter, r *http.Request) {
	p, warnings, ok := s.readProject(w, r)
	if !ok {
		return
	}

	rec := &layout.ProjectRecord{Project: p}
	if err := s.projects.Create(r.Context(), rec); err != nil {
		s.logger.Error("importing project", "error", err)
		writeDomainError(w, err)
		return
	}
	s.logger.Info("project imported",
		"project_id", rec.ID,
		"items", len(p.PlacedEquipment),
		"warnings", len(warnings),
	)
	res := s.afterChange(rec)
	s.record(r.Context(), rec.ID, audit.ActionImported, map[string]any{
		"name":       rec.Name,
		"items":      len(p.PlacedEquipment),
		"warnings":   len(warnings),
		"violations": res.Summary.Total,
	})
	writeJSON(w, http.StatusCreated, projectResponse{ProjectRecord: rec, Warnings: warnings})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{ProjectRecord: rec})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	p, warnings, ok := s.readProject(w, r)
	if !ok {
		return
	}

	p.Metadata.CreatedAt = rec.Project.Metadata.CreatedAt
	p.Metadata.UpdatedAt = time.Now().UTC()
	rec.Project = p
	rec.Name = p.Metadata.Name

	if err := s.projects.Update(r.Context(), rec); err != nil {
		s.logger.Error("updating project", "project_id", rec.ID, "error", err)
		writeDomainError(w, err)
		return
	}
	res := s.afterChange(rec)
	s.record(r.Context(), rec.ID, audit.ActionUpdated, map[string]any{
		"items":      len(p.PlacedEquipment),
		"violations": res.Summary.Total,
	})
	writeJSON(w, http.StatusOK, projectResponse{ProjectRecord: rec, Warnings: warnings})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.projects.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.dropCache(id)
	s.hub.Broadcast(ChannelProjectDeleted, id, map[string]string{"projectId": id})
	s.logger.Info("project deleted", "project_id", id)
	s.record(r.Context(), id, audit.ActionDeleted, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	data, err := layout.Export(rec.Project)
	if err != nil {
		s.logger.Error("exporting project", "project_id", rec.ID, "error", err)
		writeInternalError(w, "failed to export project")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Name+".json"))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // Best-effort write to response
}

func (s *Server) handleProjectViolations(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.violationsFor(rec))
}

func (s *Server) handleProjectClearances(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}

	segments := s.settings.ArcSegments
	if v := r.URL.Query().Get("segments"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeBadRequest(w, "segments must be a positive integer")
			return
		}
		segments = n
	}

	clearances := rec.Project.Session().Clearances(segments)
	if clearances == nil {
		clearances = []layout.ItemClearance{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projectId":  rec.ID,
		"clearances": clearances,
	})
}

// loadProject fetches the project named by the {id} URL parameter,
// writing the error response itself when that fails.
func (s *Server) loadProject(w http.ResponseWriter, r *http.Request) (*layout.ProjectRecord, bool) {
	rec, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return rec, true
}

// readProject imports the request body as a project document.
func (s *Server) readProject(w http.ResponseWriter, r *http.Request) (*layout.Project, []string, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return nil, nil, false
	}
	p, warnings, err := layout.Import(data)
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}
	return p, warnings, true
}

// violationsFor runs the memoised detector over a project's placed items.
func (s *Server) violationsFor(rec *layout.ProjectRecord) violationsResponse {
	session := rec.Project.Session()
	vs := s.cacheFor(rec.ID).Detect(session.ViolationItems(), rec.Project.CanvasSettings.PixelsPerFoot)
	if vs == nil {
		vs = []violation.Violation{}
	}
	return violationsResponse{
		ProjectID:  rec.ID,
		Summary:    violation.Summarize(vs),
		Violations: vs,
		Dangling:   session.Dangling(),
	}
}

// afterChange recomputes violations for a changed project and fans the
// result out to WebSocket clients, MQTT and metrics.
func (s *Server) afterChange(rec *layout.ProjectRecord) violationsResponse {
	res := s.violationsFor(rec)
	if len(res.Dangling) > 0 {
		s.logger.Warn("placed equipment references unknown definitions",
			"project_id", rec.ID,
			"items", res.Dangling,
		)
	}

	s.hub.Broadcast(ChannelViolationsChanged, res.ProjectID, res)

	if s.events != nil && s.events.IsConnected() {
		if err := s.events.PublishViolations(rec.ID, res.Violations); err != nil {
			s.logger.Warn("publishing violations", "project_id", rec.ID, "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.WriteViolationMetric(rec.ID, res.Violations)
	}
	return res
}
