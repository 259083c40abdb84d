package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-jose/go-jose/v4"
)

// ErrKeyUnavailable is returned when the verification key cannot be reconstructed.
// It is a boot-time failure; the process must not serve requests without a key.
var ErrKeyUnavailable = errors.New("public key unavailable")

var pemBanner = regexp.MustCompile(`-----(BEGIN|END)[A-Z ]*-----`)

// LoadPublicKey parses verification key material for the given algorithm.
//
// Accepted material:
//   - PEM text, with or without BEGIN/END banners (banners and whitespace are stripped
//     before base64 decoding, so single-line keys from environment variables work)
//   - a JWK JSON document
//
// The returned key type is checked against the algorithm family.
func LoadPublicKey(material, algorithm string) (crypto.PublicKey, error) {
	family, err := algorithmFamily(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	material = strings.TrimSpace(material)
	if material == "" {
		return nil, fmt.Errorf("%w: no key material configured", ErrKeyUnavailable)
	}

	var key crypto.PublicKey
	if strings.HasPrefix(material, "{") {
		key, err = parseJWK(material)
	} else {
		key, err = parsePEMBody(material)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	if err := checkKeyFamily(key, family); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}
	return key, nil
}

// LoadPublicKeyFile reads key material from disk and parses it with LoadPublicKey.
func LoadPublicKeyFile(path, algorithm string) (crypto.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrKeyUnavailable, path, err)
	}
	return LoadPublicKey(string(data), algorithm)
}

func parsePEMBody(material string) (crypto.PublicKey, error) {
	body := pemBanner.ReplaceAllString(material, "")
	body = strings.Join(strings.Fields(body), "")

	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 key body: %w", err)
	}

	if key, err := x509.ParsePKIXPublicKey(der); err == nil {
		return key, nil
	}

	// Fall back to PKCS#1 for "RSA PUBLIC KEY" material.
	rsaKey, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return rsaKey, nil
}

func parseJWK(material string) (crypto.PublicKey, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON([]byte(material)); err != nil {
		return nil, fmt.Errorf("parse jwk: %w", err)
	}
	if !jwk.IsPublic() {
		jwk = jwk.Public()
	}
	if !jwk.Valid() {
		return nil, errors.New("jwk does not contain a usable public key")
	}
	return jwk.Key, nil
}

type keyFamily string

const (
	familyRSA   keyFamily = "RSA"
	familyECDSA keyFamily = "EC"
)

// algorithmFamily maps a configured algorithm name to its key family.
// Bare family names ("RSA", "EC") are accepted alongside JWA names.
func algorithmFamily(algorithm string) (keyFamily, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "RSA", "RS256", "RS384", "RS512":
		return familyRSA, nil
	case "EC", "ECDSA", "ES256", "ES384", "ES512":
		return familyECDSA, nil
	default:
		return "", fmt.Errorf("unsupported algorithm %q", algorithm)
	}
}

// signingMethods returns the JWA names accepted for a configured algorithm.
func signingMethods(algorithm string) ([]string, error) {
	alg := strings.ToUpper(strings.TrimSpace(algorithm))
	switch alg {
	case "RSA":
		return []string{"RS256", "RS384", "RS512"}, nil
	case "EC", "ECDSA":
		return []string{"ES256", "ES384", "ES512"}, nil
	case "RS256", "RS384", "RS512", "ES256", "ES384", "ES512":
		return []string{alg}, nil
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
}

func checkKeyFamily(key crypto.PublicKey, family keyFamily) error {
	switch key.(type) {
	case *rsa.PublicKey:
		if family == familyRSA {
			return nil
		}
	case *ecdsa.PublicKey:
		if family == familyECDSA {
			return nil
		}
	}
	return fmt.Errorf("key type %T does not match algorithm family %s", key, family)
}
