package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/argo-platform/program-service/internal/auth"
	"github.com/argo-platform/program-service/internal/telemetry"
)

// TokenVerifier verifies a compact bearer token. *auth.Verifier implements it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthnDependencies bundles collaborators required by the authentication middleware.
type AuthnDependencies struct {
	Verifier TokenVerifier
	Logger   *slog.Logger
	Metrics  *telemetry.AuthMetrics // optional
}

var errNotBearer = errors.New("authorization header is not a bearer token")

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errNotBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNotBearer
	}
	return token, nil
}

// authenticate resolves the principal for one call. A missing header yields
// (ctx unchanged, nil); any presented but unusable credential is an error.
func authenticate(ctx context.Context, deps AuthnDependencies, header string) (context.Context, error) {
	if header == "" {
		return ctx, nil
	}

	token, err := bearerToken(header)
	if err != nil {
		deps.Metrics.RecordAuth(ctx, false, "not_bearer")
		return ctx, err
	}

	claims, err := deps.Verifier.Verify(token)
	if err != nil {
		deps.Metrics.RecordAuth(ctx, false, failureReason(err))
		return ctx, err
	}

	principal := claims.Principal()
	deps.Metrics.RecordAuth(ctx, true, "")
	return auth.WithPrincipal(ctx, principal), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, auth.ErrClaimsInvalid):
		return "claims_invalid"
	default:
		return "unknown"
	}
}

func (d AuthnDependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// NewAuthnMiddleware returns a chi-compatible middleware that verifies the
// bearer token, if any, and stores the principal on the request context.
// Requests without credentials pass through anonymously; requests with an
// invalid credential are rejected with 401 before reaching the handler.
func NewAuthnMiddleware(deps AuthnDependencies) (func(http.Handler) http.Handler, error) {
	if deps.Verifier == nil {
		return nil, errors.New("authn middleware requires a token verifier")
	}
	logger := deps.logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r.Context(), deps, r.Header.Get("Authorization"))
			if err != nil {
				logger.Info("authentication failed", "method", r.Method, "path", r.URL.Path, "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "unauthenticated", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}
