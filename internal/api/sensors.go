package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/nerrad567/sensor-monitor-core/internal/audit"
	"github.com/nerrad567/sensor-monitor-core/internal/query"
	"github.com/nerrad567/sensor-monitor-core/internal/sensor"
)

const sensorEntity = "sensor"

// decodeJSON reads one JSON value from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// handleListSensors returns one page of sensors.
//
// Query parameters:
//   - nameContains: case-sensitive substring of the name
//   - modelContains: case-sensitive substring of the model
//   - page, size, sort: paging (sort=field[,asc|desc], repeatable)
func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := query.ParsePageable(q, sensor.Sortable)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	filter := sensor.Filter{
		NameContains:  q.Get("nameContains"),
		ModelContains: q.Get("modelContains"),
	}

	page, err := s.sensors.List(r.Context(), filter, p)
	if err != nil {
		s.writeServiceError(w, r, err, sensorEntity)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// handleGetSensor returns a single sensor by id.
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	d, err := s.sensors.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, sensorEntity)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// handleCreateSensor creates a sensor. The body must not carry an id.
func (s *Server) handleCreateSensor(w http.ResponseWriter, r *http.Request) {
	var d sensor.DTO
	if err := decodeJSON(r, &d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.sensors.Create(r.Context(), d)
	if err != nil {
		s.writeServiceError(w, r, err, sensorEntity)
		return
	}

	s.auditLog(r, audit.ActionCreate, sensorEntity, *created.ID, map[string]any{"name": created.Name})
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateSensor replaces every field of a sensor, nulls included.
func (s *Server) handleUpdateSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var d sensor.DTO
	if err := decodeJSON(r, &d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.sensors.Update(r.Context(), id, d)
	if err != nil {
		s.writeServiceError(w, r, err, sensorEntity)
		return
	}

	s.auditLog(r, audit.ActionUpdate, sensorEntity, *updated.ID, nil)
	writeJSON(w, http.StatusOK, updated)
}

// handlePatchSensor merges a JSON merge-patch document onto a sensor.
func (s *Server) handlePatchSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeBadRequest(w, "request body too large")
			return
		}
		writeBadRequest(w, "failed to read request body")
		return
	}

	patched, err := s.sensors.Patch(r.Context(), id, body)
	if err != nil {
		s.writeServiceError(w, r, err, sensorEntity)
		return
	}

	s.auditLog(r, audit.ActionPatch, sensorEntity, *patched.ID, patchedFields(body))
	writeJSON(w, http.StatusOK, patched)
}

// handleDeleteSensor removes a sensor and returns it. Deleting a sensor
// that does not exist answers 200 with an empty body.
func (s *Server) handleDeleteSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.sensors.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, sensorEntity)
		return
	}
	if deleted == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.auditLog(r, audit.ActionDelete, sensorEntity, *deleted.ID, map[string]any{"name": deleted.Name})
	writeJSON(w, http.StatusOK, deleted)
}

// patchedFields lists the members of an applied patch for the audit trail.
func patchedFields(body []byte) map[string]any {
	var members map[string]json.RawMessage
	if json.Unmarshal(body, &members) != nil {
		return nil
	}
	fields := make([]string, 0, len(members))
	for k := range members {
		fields = append(fields, k)
	}
	return map[string]any{"fields": fields}
}
