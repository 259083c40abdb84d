package middleware

import (
	"errors"
	"strings"

	"github.com/argo-platform/program-service/internal/auth"
)

// fakeVerifier accepts tokens of the form "<subject>:<authority>,<authority>".
// "expired" and "garbage" exercise failure reasons.
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (*auth.Claims, error) {
	switch token {
	case "expired":
		return nil, &auth.VerificationError{Reason: auth.ErrTokenExpired, Err: errors.New("token is expired")}
	case "garbage":
		return nil, &auth.VerificationError{Reason: auth.ErrMalformedToken, Err: errors.New("token contains an invalid number of segments")}
	}

	sub, scopes, ok := strings.Cut(token, ":")
	if !ok || sub == "" {
		return nil, &auth.VerificationError{Reason: auth.ErrSignatureInvalid, Err: errors.New("signature is invalid")}
	}
	claims := &auth.Claims{Subject: sub, Type: auth.PrincipalTypeUser, ID: "jti-" + sub}
	if scopes != "" {
		claims.Authorities = strings.Split(scopes, ",")
	}
	return claims, nil
}
