package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim mapping defaults matching the identity provider's token layout.
const (
	DefaultRolesClaim     = "spring_sec_roles"
	DefaultRolePrefix     = "ROLE_"
	DefaultPrincipalClaim = "preferred_username"
)

// VerifierConfig describes how bearer tokens are checked and mapped.
type VerifierConfig struct {
	// Secret verifies HS256 tokens. Ignored when PublicKeyPEM is set.
	Secret string

	// PublicKeyPEM verifies RS256 tokens.
	PublicKeyPEM []byte

	// Issuer and Audience are checked when non-empty.
	Issuer   string
	Audience string

	// RolesClaim names the string-list claim holding roles. A dotted name
	// such as "realm_access.roles" walks nested objects.
	RolesClaim string

	// RolePrefix must start every role entry and is removed from it.
	// Entries without it are ignored.
	RolePrefix string

	// PrincipalClaim names the display identity claim; sub is the fallback.
	PrincipalClaim string

	Leeway time.Duration
}

// Verifier turns bearer tokens into principals.
type Verifier struct {
	cfg    VerifierConfig
	key    any
	parser *jwt.Parser
}

// NewVerifier builds a Verifier. Exactly one of Secret or PublicKeyPEM must
// provide key material.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if cfg.RolesClaim == "" {
		cfg.RolesClaim = DefaultRolesClaim
	}
	if cfg.PrincipalClaim == "" {
		cfg.PrincipalClaim = DefaultPrincipalClaim
	}

	var key any
	var method jwt.SigningMethod
	switch {
	case len(cfg.PublicKeyPEM) > 0:
		pub, err := jwt.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("parsing RSA public key: %w", err)
		}
		key, method = pub, jwt.SigningMethodRS256
	case cfg.Secret != "":
		key, method = []byte(cfg.Secret), jwt.SigningMethodHS256
	default:
		return nil, errors.New("auth: no token verification key configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{
		cfg:    cfg,
		key:    key,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Algorithm returns the signing algorithm the verifier accepts.
func (v *Verifier) Algorithm() string {
	if _, ok := v.key.(*rsa.PublicKey); ok {
		return jwt.SigningMethodRS256.Alg()
	}
	return jwt.SigningMethodHS256.Alg()
}

// Verify checks the token's signature and registered claims and maps it to
// a Principal. All failures wrap ErrTokenInvalid, expired tokens also wrap
// ErrTokenExpired.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	subject, _ := claims["sub"].(string)
	name, _ := claims[v.cfg.PrincipalClaim].(string)
	if name == "" {
		name = subject
	}
	if name == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return &Principal{
		Name:    name,
		Subject: subject,
		Roles:   v.roles(claims),
	}, nil
}

// roles extracts prefixed role names from the configured claim.
func (v *Verifier) roles(claims jwt.MapClaims) []Role {
	var raw any = map[string]any(claims)
	for _, key := range strings.Split(v.cfg.RolesClaim, ".") {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		raw = obj[key]
	}

	var entries []string
	switch val := raw.(type) {
	case []any:
		for _, e := range val {
			if s, ok := e.(string); ok {
				entries = append(entries, s)
			}
		}
	case string:
		entries = strings.Fields(val)
	}

	roles := make([]Role, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutPrefix(e, v.cfg.RolePrefix)
		if !ok || name == "" {
			continue
		}
		roles = append(roles, Role(name))
	}
	return roles
}
