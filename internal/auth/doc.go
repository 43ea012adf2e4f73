// Package auth verifies bearer tokens and decides whether a caller may run
// an operation.
//
// Tokens are issued by an external identity provider. A Verifier checks the
// signature (HS256 shared secret or RS256 public key), expiry, and optional
// issuer and audience, then maps the token to a Principal:
//
//   - Name comes from preferred_username, falling back to sub
//   - Roles come from the spring_sec_roles claim; entries must carry the
//     ROLE_ prefix, which is removed (ROLE_VIEWER becomes VIEWER)
//
// Claim names and the prefix are configurable.
//
// Authorisation is two roles deep. VIEWER may read; ADMINISTRATOR may read
// and write. Each route declares a Predicate (HasRole or AnyRole) that the
// API middleware checks before any request decoding.
package auth
