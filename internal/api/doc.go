// Package api implements the HTTP REST API for sensors, units and types.
//
// This package provides:
//   - CRUD endpoints under /api/sensors, /api/units and /api/types
//   - Bearer token authentication and per-route role checks
//   - Weak ETags with If-None-Match on GET responses
//   - An asynchronous audit trail of every mutation, listed on /api/audit
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Request pipeline
//
// Each route runs: authenticate, check role, decode and validate, resolve
// the target, mutate, map to the wire form. The first failure ends the
// request. Role checks run before the body is read.
//
// VIEWER and ADMINISTRATOR may read; only ADMINISTRATOR may write.
//
// # Errors
//
// Failures are JSON {status, code, message}. Validation failures add an
// errors array of {field, message}.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
