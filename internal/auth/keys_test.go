package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pkixPEM(t *testing.T, pub any) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestLoadPublicKey_PEMWithBanners(t *testing.T) {
	key := newRSAKey(t)

	parsed, err := LoadPublicKey(pkixPEM(t, &key.PublicKey), "RSA")
	require.NoError(t, err)

	rsaKey, ok := parsed.(*rsa.PublicKey)
	require.True(t, ok)
	assert.True(t, key.PublicKey.Equal(rsaKey))
}

func TestLoadPublicKey_BareBase64(t *testing.T) {
	key := newRSAKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	// Identity services commonly hand out the key as one line without banners.
	parsed, err := LoadPublicKey(base64.StdEncoding.EncodeToString(der), "RS256")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(parsed))
}

func TestLoadPublicKey_PKCS1(t *testing.T) {
	key := newRSAKey(t)
	block := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	})

	parsed, err := LoadPublicKey(string(block), "RSA")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(parsed))
}

func TestLoadPublicKey_JWK(t *testing.T) {
	key := newRSAKey(t)
	jwk := jose.JSONWebKey{Key: &key.PublicKey, KeyID: "k1", Algorithm: "RS256", Use: "sig"}
	raw, err := jwk.MarshalJSON()
	require.NoError(t, err)

	parsed, err := LoadPublicKey(string(raw), "RS256")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(parsed))
}

func TestLoadPublicKey_ECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	parsed, err := LoadPublicKey(pkixPEM(t, &key.PublicKey), "ES256")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(parsed))
}

func TestLoadPublicKey_Errors(t *testing.T) {
	rsaKey := newRSAKey(t)

	tests := []struct {
		name      string
		material  string
		algorithm string
	}{
		{name: "empty", material: "  ", algorithm: "RSA"},
		{name: "not base64", material: "-----BEGIN PUBLIC KEY-----\n%%%%\n-----END PUBLIC KEY-----", algorithm: "RSA"},
		{name: "not a key", material: base64.StdEncoding.EncodeToString([]byte("hello")), algorithm: "RSA"},
		{name: "bad jwk", material: `{"kty":"RSA"}`, algorithm: "RSA"},
		{name: "family mismatch", material: pkixPEM(t, &rsaKey.PublicKey), algorithm: "ES256"},
		{name: "unsupported algorithm", material: pkixPEM(t, &rsaKey.PublicKey), algorithm: "HS256"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPublicKey(tt.material, tt.algorithm)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrKeyUnavailable)
		})
	}
}

func TestLoadPublicKeyFile(t *testing.T) {
	key := newRSAKey(t)
	path := filepath.Join(t.TempDir(), "ego.pub")
	require.NoError(t, os.WriteFile(path, []byte(pkixPEM(t, &key.PublicKey)), 0o600))

	parsed, err := LoadPublicKeyFile(path, "RSA")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(parsed))

	_, err = LoadPublicKeyFile(filepath.Join(t.TempDir(), "missing.pub"), "RSA")
	assert.ErrorIs(t, err, ErrKeyUnavailable)
}
