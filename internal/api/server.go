package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/sensor-monitor-core/internal/audit"
	"github.com/nerrad567/sensor-monitor-core/internal/auth"
	"github.com/nerrad567/sensor-monitor-core/internal/catalog"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/config"
	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/logging"
	"github.com/nerrad567/sensor-monitor-core/internal/sensor"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is a dependency whose liveness is reported by /api/health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Verifier *auth.Verifier
	Sensors  *sensor.Registry
	Units    *catalog.Registry
	Types    *catalog.Registry

	// AuditRepo is optional; without it mutations are not recorded and
	// /api/audit answers 500.
	AuditRepo audit.Repository

	// Checks are reported by name on /api/health. Optional.
	Checks map[string]HealthChecker

	Version string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, middleware and the audit writer.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	verifier  *auth.Verifier
	sensors   *sensor.Registry
	units     *catalog.Registry
	types     *catalog.Registry
	auditRepo audit.Repository
	auditCh   chan *audit.AuditLog
	auditDone chan struct{}
	checks    map[string]HealthChecker
	version   string
	server    *http.Server
	cancel    context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Verifier == nil {
		return nil, fmt.Errorf("token verifier is required")
	}
	if deps.Sensors == nil {
		return nil, fmt.Errorf("sensor registry is required")
	}
	if deps.Units == nil || deps.Types == nil {
		return nil, fmt.Errorf("unit and type registries are required")
	}

	s := &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		verifier:  deps.Verifier,
		sensors:   deps.Sensors,
		units:     deps.Units,
		types:     deps.Types,
		auditRepo: deps.AuditRepo,
		checks:    deps.Checks,
		version:   deps.Version,
	}
	if s.auditRepo != nil {
		s.auditCh = make(chan *audit.AuditLog, auditChanSize)
	}

	return s, nil
}

// Handler returns the routed handler with the full middleware stack.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections.
//
// It starts the audit writer and launches the HTTP listener in a
// background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.auditCh != nil {
		s.auditDone = make(chan struct{})
		go func() {
			defer close(s.auditDone)
			s.drainAuditLog(srvCtx)
		}()
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete, then
// flushes queued audit entries.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	err := s.server.Shutdown(ctx)

	if s.cancel != nil {
		s.cancel()
	}
	if s.auditDone != nil {
		<-s.auditDone
	}

	if err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
