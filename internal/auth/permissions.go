package auth

import (
	"fmt"
	"slices"
	"strings"
)

// Predicate is a role requirement attached to an operation. Predicates are
// values so routes can declare them once and compose them with middleware.
type Predicate struct {
	desc    string
	allowed []Role
}

// HasRole requires exactly role r.
func HasRole(r Role) Predicate {
	return Predicate{
		desc:    fmt.Sprintf("hasRole('%s')", r),
		allowed: []Role{r},
	}
}

// AnyRole requires at least one of roles.
func AnyRole(roles ...Role) Predicate {
	quoted := make([]string, len(roles))
	for i, r := range roles {
		quoted[i] = "'" + string(r) + "'"
	}
	return Predicate{
		desc:    "hasAnyRole(" + strings.Join(quoted, ", ") + ")",
		allowed: slices.Clone(roles),
	}
}

// Allows reports whether p satisfies the predicate. A nil principal never does.
func (pred Predicate) Allows(p *Principal) bool {
	if p == nil {
		return false
	}
	return slices.ContainsFunc(pred.allowed, p.HasRole)
}

// String describes the requirement for logs.
func (pred Predicate) String() string {
	return pred.desc
}

// Authorize checks p against pred. It returns ErrTokenMissing when there is
// no principal and ErrForbidden when the principal lacks the role.
func Authorize(p *Principal, pred Predicate) error {
	if p == nil {
		return ErrTokenMissing
	}
	if !pred.Allows(p) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, p.Name, pred)
	}
	return nil
}

// Common predicates.
var (
	// CanRead admits viewers and administrators.
	CanRead = AnyRole(RoleViewer, RoleAdministrator)

	// CanWrite admits administrators only.
	CanWrite = HasRole(RoleAdministrator)
)
