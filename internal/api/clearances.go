package api

import (
	"net/http"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

type clearanceRequest struct {
	Clearance  *clearance.Clearance `json:"clearance"`
	Dimensions clearance.Dimensions `json:"dimensions"`
	Segments   int                  `json:"segments,omitempty"`
}

type containsRequest struct {
	clearanceRequest
	Point     geometry.Point `json:"point"`
	Equipment struct {
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Rotation float64 `json:"rotation"`
	} `json:"equipment"`
}

// polygonResponse is the materialised outline in item-local feet.
type polygonResponse struct {
	Kind   clearance.Kind    `json:"kind,omitempty"`
	Points []geometry.Point  `json:"points"`
	Bounds *geometry.Bounds  `json:"bounds,omitempty"`
	Custom *clearance.Custom `json:"custom,omitempty"`
}

// toCustom validates req and converts its clearance to polygon form. A nil
// clearance yields ok with an empty polygon.
func (s *Server) toCustom(w http.ResponseWriter, req clearanceRequest) (clearance.Custom, bool) {
	if req.Clearance == nil {
		return clearance.Custom{}, true
	}
	if msgs := clearance.ValidateClearance(req.Clearance); len(msgs) > 0 {
		writeDomainError(w, &clearance.ValidationError{Messages: msgs})
		return clearance.Custom{}, false
	}
	if req.Clearance.Kind() == clearance.KindRectangular {
		if err := req.Dimensions.Validate(); err != nil {
			writeDomainError(w, err)
			return clearance.Custom{}, false
		}
	}
	return req.Clearance.ToCustom(req.Dimensions), true
}

func (s *Server) handleClearancePolygon(w http.ResponseWriter, r *http.Request) {
	var req clearanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	custom, ok := s.toCustom(w, req)
	if !ok {
		return
	}

	segments := req.Segments
	if segments < 1 {
		segments = s.settings.ArcSegments
	}

	resp := polygonResponse{Points: clearance.GeneratePolygonPoints(custom, segments)}
	if req.Clearance != nil {
		resp.Kind = req.Clearance.Kind()
		resp.Custom = &custom
	}
	if b, ok := geometry.BoundsOf(resp.Points); ok {
		resp.Bounds = &b
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearanceValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Clearance *clearance.Clearance `json:"clearance"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	errs := clearance.ValidateClearance(req.Clearance)
	if errs == nil {
		errs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

func (s *Server) handleClearanceContains(w http.ResponseWriter, r *http.Request) {
	var req containsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Clearance == nil {
		writeBadRequest(w, "clearance is required")
		return
	}
	custom, ok := s.toCustom(w, req.clearanceRequest)
	if !ok {
		return
	}

	inside := clearance.IsPointInClearance(req.Point.X, req.Point.Y, custom,
		req.Equipment.X, req.Equipment.Y, req.Equipment.Rotation)
	writeJSON(w, http.StatusOK, map[string]bool{"inside": inside})
}
