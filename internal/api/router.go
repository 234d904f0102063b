package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Post("/import", s.handleImportProject)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Put("/", s.handleUpdateProject)
				r.Delete("/", s.handleDeleteProject)
				r.Get("/export", s.handleExportProject)
				r.Get("/violations", s.handleProjectViolations)
				r.Get("/clearances", s.handleProjectClearances)
				r.Get("/history", s.handleProjectHistory)
			})
		})

		r.Route("/clearance", func(r chi.Router) {
			r.Post("/polygon", s.handleClearancePolygon)
			r.Post("/validate", s.handleClearanceValidate)
			r.Post("/contains", s.handleClearanceContains)
		})

		r.Post("/measurements", s.handleMeasurement)
		r.Post("/calibration", s.handleCalibration)

		r.Route("/viewport", func(r chi.Router) {
			r.Post("/zoom", s.handleViewportZoom)
			r.Post("/pan", s.handleViewportPan)
			r.Post("/fit", s.handleViewportFit)
			r.Post("/reset", s.handleViewportReset)
		})

		r.Get(s.wsPath(), s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":  "ok",
		"version": s.version,
		"clients": s.hub.ClientCount(),
	}
	if s.events != nil {
		body["mqtt"] = s.events.IsConnected()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}
