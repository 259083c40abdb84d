package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func userClaims(sub string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": sub,
		"iss": "ego",
		"jti": "token-1",
		"iat": fixedNow.Add(-time.Minute).Unix(),
		"exp": exp.Unix(),
		"context": map[string]any{
			"scope": []any{"PROGRAMSERVICE.READ", "PROGRAM-TEST-CA.WRITE"},
			"user": map[string]any{
				"email":     "jane@example.com",
				"firstName": "Jane",
				"lastName":  "Doe",
			},
		},
	}
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey, opts ...VerifierOption) *Verifier {
	t.Helper()
	opts = append([]VerifierOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	v, err := NewVerifier(&key.PublicKey, "RS256", opts...)
	require.NoError(t, err)
	return v
}

func TestVerify_ValidToken(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	token := signToken(t, jwt.SigningMethodRS256, key, userClaims("user-1", fixedNow.Add(time.Hour)))

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, PrincipalTypeUser, claims.Type)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.Equal(t, "token-1", claims.ID)
	assert.ElementsMatch(t, []string{"PROGRAMSERVICE.READ", "PROGRAM-TEST-CA.WRITE"}, claims.Authorities)
	assert.True(t, claims.ExpiresAt.Equal(fixedNow.Add(time.Hour).Truncate(time.Second)))
}

func TestVerify_SubjectMatchesSigner(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	for _, sub := range []string{"a", "user-42", "0b7c3f0e-6c1d-4c53-9d3b-3b0f5f1f2a10", "svc@example.com"} {
		token := signToken(t, jwt.SigningMethodRS256, key, jwt.MapClaims{
			"sub": sub,
			"exp": fixedNow.Add(time.Minute).Unix(),
		})
		claims, err := v.Verify(token)
		require.NoError(t, err, sub)
		assert.Equal(t, sub, claims.Subject)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)
	token := signToken(t, jwt.SigningMethodRS256, key, userClaims("user-1", fixedNow.Add(time.Hour)))

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for _, idx := range []int{0, len(sig) / 2, len(sig) - 1} {
		tampered := append([]byte(nil), sig...)
		tampered[idx] ^= 0x01
		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := v.Verify(forged)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignatureInvalid, "byte %d", idx)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	signer := newRSAKey(t)
	other := newRSAKey(t)
	v := newTestVerifier(t, other)

	token := signToken(t, jwt.SigningMethodRS256, signer, userClaims("user-1", fixedNow.Add(time.Hour)))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_AlgorithmNotAllowed(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	token := signToken(t, jwt.SigningMethodRS512, key, userClaims("user-1", fixedNow.Add(time.Hour)))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Expired(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	token := signToken(t, jwt.SigningMethodRS256, key, userClaims("user-1", fixedNow.Add(-time.Second)))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrTokenExpired, verr.Reason)
}

func TestVerify_LeewayAcceptsRecentlyExpired(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key, WithLeeway(30*time.Second))

	token := signToken(t, jwt.SigningMethodRS256, key, userClaims("user-1", fixedNow.Add(-10*time.Second)))

	_, err := v.Verify(token)
	assert.NoError(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "not-a-token"},
		{name: "two segments", token: "abc.def"},
		{name: "garbage segments", token: "!!!.@@@.###"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	token := signToken(t, jwt.SigningMethodRS256, key, jwt.MapClaims{"sub": "user-1"})

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrClaimsInvalid)
}

func TestVerify_IssuerMismatch(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key, WithIssuer("https://ego.example.com"))

	token := signToken(t, jwt.SigningMethodRS256, key, userClaims("user-1", fixedNow.Add(time.Hour)))

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrClaimsInvalid)
}

func TestVerify_ApplicationToken(t *testing.T) {
	key := newRSAKey(t)
	v := newTestVerifier(t, key)

	token := signToken(t, jwt.SigningMethodRS256, key, jwt.MapClaims{
		"sub":   "app-7",
		"exp":   fixedNow.Add(time.Hour).Unix(),
		"scope": "PROGRAMSERVICE.WRITE PROGRAMSERVICE.READ",
		"context": map[string]any{
			"application": map[string]any{"name": "program-sync", "clientId": "sync"},
		},
	})

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, PrincipalTypeService, claims.Type)
	assert.Equal(t, "program-sync", claims.Name)
	assert.Equal(t, []string{"PROGRAMSERVICE.WRITE", "PROGRAMSERVICE.READ"}, claims.Authorities)
}

func TestVerify_ECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	v, err := NewVerifier(&key.PublicKey, "ES256", WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	token := signToken(t, jwt.SigningMethodES256, key, jwt.MapClaims{
		"sub": "user-ec",
		"exp": fixedNow.Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-ec", claims.Subject)
}

func TestNewVerifier_KeyUnavailable(t *testing.T) {
	key := newRSAKey(t)

	_, err := NewVerifier(nil, "RS256")
	assert.ErrorIs(t, err, ErrKeyUnavailable)

	_, err = NewVerifier(&key.PublicKey, "ES256")
	assert.ErrorIs(t, err, ErrKeyUnavailable)

	_, err = NewVerifier(&key.PublicKey, "HS256")
	assert.ErrorIs(t, err, ErrKeyUnavailable)
}

func TestClaims_Principal(t *testing.T) {
	c := &Claims{
		Subject:     "user-1",
		Type:        PrincipalTypeUser,
		Authorities: []string{"PROGRAMSERVICE.READ"},
		Email:       "jane@example.com",
		ID:          "jti-1",
	}

	p := c.Principal()
	c.Authorities[0] = "MUTATED"

	assert.Equal(t, "user-1", p.Subject)
	assert.Equal(t, "jti-1", p.TokenID)
	assert.Equal(t, []string{"PROGRAMSERVICE.READ"}, p.Authorities)
}
