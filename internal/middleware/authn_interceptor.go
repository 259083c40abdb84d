package middleware

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
)

// NewAuthnInterceptor creates a Connect interceptor for bearer token authentication.
//
// Calls without an Authorization header reach the handler with no principal
// in context; handlers decide whether anonymous access is allowed. A header
// that is not a valid bearer token fails the call with CodeUnauthenticated
// and the handler is never invoked.
func NewAuthnInterceptor(deps AuthnDependencies) (connect.UnaryInterceptorFunc, error) {
	if deps.Verifier == nil {
		return nil, errors.New("authn interceptor requires a token verifier")
	}
	logger := deps.logger()

	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, err := authenticate(ctx, deps, req.Header().Get("Authorization"))
			if err != nil {
				logger.Info("authentication failed", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("invalid credentials: %w", err))
			}
			return next(ctx, req)
		})
	}), nil
}
