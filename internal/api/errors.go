package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/nerrad567/sensor-monitor-core/internal/auth"
	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/query"
	"github.com/nerrad567/sensor-monitor-core/internal/sensor"
	"github.com/nerrad567/sensor-monitor-core/internal/validation"
)

// Error represents a structured error response.
type Error struct {
	Status  int                     `json:"status"`
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnauthorized   = "unauthorised"
	ErrCodeForbidden      = "forbidden"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodePatchFailed    = "patch_failed"
	ErrCodeMethodNotAllow = "method_not_allowed"
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

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="sensormonitor"`)
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeValidationError writes a 422 response listing every failed field.
func writeValidationError(w http.ResponseWriter, fields []validation.FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    ErrCodeValidation,
		Message: "request validation failed",
		Errors:  fields,
	})
}

// writeServiceError maps an error returned by a registry onto its HTTP
// response. Unclassified errors are logged and reported as opaque 500s.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, validation.ErrFailed):
		writeValidationError(w, validation.Fields(err))
	case errors.Is(err, sensor.ErrSensorNotFound), errors.Is(err, catalog.ErrNotFound):
		writeNotFound(w, what+" not found")
	case errors.Is(err, sensor.ErrPatchFailed):
		writeError(w, http.StatusBadRequest, ErrCodePatchFailed, err.Error())
	case errors.Is(err, sensor.ErrInvalidID), errors.Is(err, query.ErrInvalidPageable):
		writeBadRequest(w, err.Error())
	case errors.Is(err, catalog.ErrExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, what+" already exists")
	case errors.Is(err, catalog.ErrInUse):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		writeForbidden(w, "insufficient permissions")
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
			"error", err,
		)
		writeInternalError(w, "failed to process "+what)
	}
}
