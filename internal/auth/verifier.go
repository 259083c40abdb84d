package auth

import (
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Every error returned by Verifier.Verify wraps exactly one of these.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrClaimsInvalid    = errors.New("token claims invalid")
)

// VerificationError reports why a bearer token was rejected.
type VerificationError struct {
	Reason error
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Reason }

type verifierOptions struct {
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// VerifierOption customises token validation.
type VerifierOption func(*verifierOptions)

// WithIssuer requires the iss claim to equal issuer.
func WithIssuer(issuer string) VerifierOption {
	return func(o *verifierOptions) { o.issuer = issuer }
}

// WithAudience requires the aud claim to contain audience.
func WithAudience(audience string) VerifierOption {
	return func(o *verifierOptions) { o.audience = audience }
}

// WithLeeway tolerates clock skew when validating time based claims.
func WithLeeway(leeway time.Duration) VerifierOption {
	return func(o *verifierOptions) { o.leeway = leeway }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) VerifierOption {
	return func(o *verifierOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Verifier validates signed bearer tokens against a single public key.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	key    crypto.PublicKey
	parser *jwt.Parser
}

// NewVerifier builds a verifier for key and algorithm. The key must already be
// parsed (see LoadPublicKey); a nil key is reported as ErrKeyUnavailable.
func NewVerifier(key crypto.PublicKey, algorithm string, opts ...VerifierOption) (*Verifier, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrKeyUnavailable)
	}
	family, err := algorithmFamily(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}
	if err := checkKeyFamily(key, family); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}
	methods, err := signingMethods(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	o := verifierOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(o.now),
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(o.leeway))
	}
	if o.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(o.issuer))
	}
	if o.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(o.audience))
	}

	return &Verifier{
		key:    key,
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// Verify checks the token signature and expiry and returns its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(token, mapClaims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, err := claimsFromMap(mapClaims)
	if err != nil {
		return nil, &VerificationError{Reason: ErrClaimsInvalid, Err: err}
	}
	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &VerificationError{Reason: ErrMalformedToken, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &VerificationError{Reason: ErrSignatureInvalid, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerificationError{Reason: ErrTokenExpired, Err: err}
	default:
		return &VerificationError{Reason: ErrClaimsInvalid, Err: err}
	}
}
