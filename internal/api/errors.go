package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jscales4000/LotPlanner-sub000/internal/calibration"
	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
)

// Error is the JSON error envelope.
type Error struct {
	Status  int      `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeInternal   = "internal_error"
	ErrCodeValidation = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details ...string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps package sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var importErr *layout.ImportError
	var validationErr *clearance.ValidationError

	switch {
	case errors.As(err, &importErr):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid project document", importErr.Problems...)
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid clearance", validationErr.Messages...)
	case errors.Is(err, layout.ErrProjectNotFound),
		errors.Is(err, layout.ErrEquipmentNotFound),
		errors.Is(err, layout.ErrImageNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, layout.ErrInvalidProject),
		errors.Is(err, clearance.ErrInvalidClearance),
		errors.Is(err, clearance.ErrInvalidDimensions),
		errors.Is(err, measurement.ErrUnknownKind),
		errors.Is(err, measurement.ErrTooFewPoints),
		errors.Is(err, calibration.ErrBelowThreshold),
		errors.Is(err, calibration.ErrInvalidDistance),
		errors.Is(err, calibration.ErrUnknownTarget):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
	default:
		writeInternalError(w, "internal server error")
	}
}

// decodeJSON decodes the request body into v, rejecting unknown trailing data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
