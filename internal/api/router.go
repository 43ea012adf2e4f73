package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/sensor-monitor-core/internal/auth"
)

// healthCheckTimeout bounds each dependency check on /api/health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/sensors", func(r chi.Router) {
				r.With(s.requireRole(auth.CanRead), s.etagMiddleware).Get("/", s.handleListSensors)
				r.With(s.requireRole(auth.CanWrite)).Post("/", s.handleCreateSensor)

				r.Route("/{id}", func(r chi.Router) {
					r.With(s.requireRole(auth.CanRead), s.etagMiddleware).Get("/", s.handleGetSensor)
					r.With(s.requireRole(auth.CanWrite)).Put("/", s.handleUpdateSensor)
					r.With(s.requireRole(auth.CanWrite)).Patch("/", s.handlePatchSensor)
					r.With(s.requireRole(auth.CanWrite)).Delete("/", s.handleDeleteSensor)
				})
			})

			r.Route("/units", s.catalogRoutes(s.units))
			r.Route("/types", s.catalogRoutes(s.types))

			r.With(s.requireRole(auth.CanWrite)).Get("/audit", s.handleListAuditLogs)
		})
	})

	return r
}

// handleHealth returns the server health status. Any failing dependency
// turns the response into 503 degraded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	checks := make(map[string]string, len(s.checks))

	for name, c := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := c.HealthCheck(ctx)
		cancel()
		if err != nil {
			checks[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}
