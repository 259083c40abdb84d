package auth

import "context"

// PrincipalType describes the type of authenticated principal.
type PrincipalType string

const (
	// PrincipalTypeUser represents a human user holding an identity-service account.
	PrincipalTypeUser PrincipalType = "user"
	// PrincipalTypeService represents an application authenticated with client credentials.
	PrincipalTypeService PrincipalType = "service"
)

// Principal captures identity metadata propagated through the request context.
// It is built once per request from verified token claims and never mutated.
type Principal struct {
	// Subject is the stable subject identifier issued by the identity service.
	Subject string
	// Type differentiates users and services.
	Type PrincipalType
	// Authorities lists granted scopes, e.g. PROGRAMSERVICE.WRITE or PROGRAM-TEST-CA.READ.
	Authorities []string
	// Email is present for users when the token carries it.
	Email string
	// Name is an optional display name.
	Name string
	// TokenID is the jti of the presented token.
	TokenID string
}

// Anonymous is the principal seen by handlers when no credentials were presented.
var Anonymous = Principal{}

// IsAnonymous reports whether the principal carries no identity.
func (p Principal) IsAnonymous() bool {
	return p.Subject == ""
}

// HasAuthority reports whether the principal was granted the given authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// WithPrincipal stores the authenticated principal on the context for downstream consumers.
// The authority slice is copied so later mutation by the caller cannot leak into the request.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	principal.Authorities = append([]string(nil), principal.Authorities...)
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
// It returns Anonymous and false when the call carried no credentials.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok {
		return Anonymous, false
	}
	return principal, true
}
