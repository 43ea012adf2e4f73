package auth

import (
	"errors"
	"slices"
)

// Role is an authorisation tier granted by the identity provider.
type Role string

const (
	// RoleViewer may read sensors, units and types.
	RoleViewer Role = "VIEWER"

	// RoleAdministrator may read and modify everything, and read the audit trail.
	RoleAdministrator Role = "ADMINISTRATOR"
)

// KnownRoles lists the roles the gate understands. Other role names in a
// token are carried on the Principal but satisfy no predicate.
var KnownRoles = []Role{RoleViewer, RoleAdministrator}

// Principal is the authenticated caller behind a request.
type Principal struct {
	// Name is the display identity (preferred_username by default).
	Name string `json:"name"`

	// Subject is the token's sub claim.
	Subject string `json:"subject"`

	// Roles are the granted roles with the provider prefix removed.
	Roles []Role `json:"roles"`
}

// HasRole reports whether the principal was granted r.
func (p *Principal) HasRole(r Role) bool {
	return p != nil && slices.Contains(p.Roles, r)
}

// Auth errors.
var (
	ErrTokenMissing = errors.New("missing bearer token")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrForbidden    = errors.New("insufficient permissions")
)
