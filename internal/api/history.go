package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jscales4000/LotPlanner-sub000/internal/audit"
)

// record appends a history entry for a project. Failures are logged and
// never fail the request that caused them.
func (s *Server) record(ctx context.Context, projectID, action string, details map[string]any) {
	if s.history == nil {
		return
	}
	e := &audit.Entry{ProjectID: projectID, Action: action, Details: details}
	if err := s.history.Record(ctx, e); err != nil {
		s.logger.Warn("recording project history",
			"project_id", projectID,
			"action", action,
			"error", err,
		)
	}
}

// handleProjectHistory lists a project's history, newest first.
// Query parameters: action, limit, offset.
func (s *Server) handleProjectHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	filter := audit.Filter{ProjectID: id, Action: q.Get("action")}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "invalid "+name)
			return
		}
		*dst = n
	}

	if s.history == nil {
		writeJSON(w, http.StatusOK, audit.Page{Entries: []audit.Entry{}, Limit: filter.Limit, Offset: filter.Offset})
		return
	}
	page, err := s.history.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing project history", "project_id", id, "error", err)
		writeInternalError(w, "failed to list project history")
		return
	}
	writeJSON(w, http.StatusOK, page)
}
