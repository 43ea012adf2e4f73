package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/sensor-monitor-core/internal/audit"
	"github.com/nerrad567/sensor-monitor-core/internal/auth"
	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/query"
)

// catalogRoutes mounts create/get/list/update/delete for one catalog kind.
// The {id} path segment is the entry name.
func (s *Server) catalogRoutes(reg *catalog.Registry) func(chi.Router) {
	h := catalogHandlers{server: s, reg: reg}
	return func(r chi.Router) {
		r.With(s.requireRole(auth.CanRead), s.etagMiddleware).Get("/", h.list)
		r.With(s.requireRole(auth.CanWrite)).Post("/", h.create)

		r.Route("/{id}", func(r chi.Router) {
			r.With(s.requireRole(auth.CanRead), s.etagMiddleware).Get("/", h.get)
			r.With(s.requireRole(auth.CanWrite)).Put("/", h.update)
			r.With(s.requireRole(auth.CanWrite)).Delete("/", h.remove)
		})
	}
}

// catalogHandlers serves the units or types resource.
type catalogHandlers struct {
	server *Server
	reg    *catalog.Registry
}

func (h catalogHandlers) noun() string {
	return h.reg.Kind().Noun()
}

func (h catalogHandlers) list(w http.ResponseWriter, r *http.Request) {
	p, err := query.ParsePageable(r.URL.Query(), catalog.Sortable)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	page, err := h.reg.List(r.Context(), p)
	if err != nil {
		h.server.writeServiceError(w, r, err, h.noun())
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// entryName returns the {id} path segment as an entry name. chi routes on
// the raw path when the request escapes reserved characters, so a name
// such as "m/s" arrives as "m%2Fs" and is decoded here.
func entryName(r *http.Request) (string, bool) {
	name := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return name, true
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func (h catalogHandlers) get(w http.ResponseWriter, r *http.Request) {
	name, ok := entryName(r)
	if !ok {
		writeBadRequest(w, "invalid "+h.noun()+" name")
		return
	}

	d, err := h.reg.Get(r.Context(), name)
	if err != nil {
		h.server.writeServiceError(w, r, err, h.noun())
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h catalogHandlers) create(w http.ResponseWriter, r *http.Request) {
	var d catalog.DTO
	if err := decodeJSON(r, &d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := h.reg.Create(r.Context(), d)
	if err != nil {
		h.server.writeServiceError(w, r, err, h.noun())
		return
	}

	h.server.auditLog(r, audit.ActionCreate, h.noun(), created.Name, nil)
	writeJSON(w, http.StatusCreated, created)
}

func (h catalogHandlers) update(w http.ResponseWriter, r *http.Request) {
	name, ok := entryName(r)
	if !ok {
		writeBadRequest(w, "invalid "+h.noun()+" name")
		return
	}

	var d catalog.DTO
	if err := decodeJSON(r, &d); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.reg.Update(r.Context(), name, d)
	if err != nil {
		h.server.writeServiceError(w, r, err, h.noun())
		return
	}

	var details map[string]any
	if updated.Name != name {
		details = map[string]any{"renamed_to": updated.Name}
	}
	h.server.auditLog(r, audit.ActionUpdate, h.noun(), name, details)
	writeJSON(w, http.StatusOK, updated)
}

func (h catalogHandlers) remove(w http.ResponseWriter, r *http.Request) {
	name, ok := entryName(r)
	if !ok {
		writeBadRequest(w, "invalid "+h.noun()+" name")
		return
	}

	deleted, err := h.reg.Delete(r.Context(), name)
	if err != nil {
		h.server.writeServiceError(w, r, err, h.noun())
		return
	}
	if deleted == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	h.server.auditLog(r, audit.ActionDelete, h.noun(), name, nil)
	writeJSON(w, http.StatusOK, deleted)
}
