package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"
)

// Claims is the verified content of a bearer token.
type Claims struct {
	Subject     string
	Type        PrincipalType
	Authorities []string
	Email       string
	Name        string
	ID          string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Principal converts verified claims into the request principal.
func (c *Claims) Principal() Principal {
	return Principal{
		Subject:     c.Subject,
		Type:        c.Type,
		Authorities: append([]string(nil), c.Authorities...),
		Email:       c.Email,
		Name:        c.Name,
		TokenID:     c.ID,
	}
}

// tokenContext mirrors the nested "context" claim issued by the identity service:
//
//	{"context": {"scope": ["PROGRAMSERVICE.WRITE"], "user": {"email": "..."}}}
//	{"context": {"scope": [...], "application": {"clientId": "..."}}}
type tokenContext struct {
	Scope       []string          `mapstructure:"scope"`
	User        *tokenUser        `mapstructure:"user"`
	Application *tokenApplication `mapstructure:"application"`
}

type tokenUser struct {
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	FirstName string `mapstructure:"firstName"`
	LastName  string `mapstructure:"lastName"`
}

type tokenApplication struct {
	Name     string `mapstructure:"name"`
	ClientID string `mapstructure:"clientId"`
}

func claimsFromMap(mc jwt.MapClaims) (*Claims, error) {
	sub, err := mc.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("sub: %w", err)
	}
	if sub == "" {
		return nil, errors.New("sub claim is required")
	}

	claims := &Claims{Subject: sub, Type: PrincipalTypeUser}
	if id, ok := mc["jti"].(string); ok {
		claims.ID = id
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	scopes, err := extractScope(mc["scope"])
	if err != nil {
		return nil, err
	}

	if raw, ok := mc["context"]; ok {
		var tc tokenContext
		if err := mapstructure.Decode(raw, &tc); err != nil {
			return nil, fmt.Errorf("decode context claim: %w", err)
		}
		scopes = append(scopes, tc.Scope...)
		switch {
		case tc.Application != nil:
			claims.Type = PrincipalTypeService
			claims.Name = tc.Application.Name
		case tc.User != nil:
			claims.Email = tc.User.Email
			claims.Name = displayName(tc.User)
		}
	}

	if email, ok := mc["email"].(string); ok && claims.Email == "" {
		claims.Email = email
	}

	claims.Authorities = dedupe(scopes)
	return claims, nil
}

// extractScope accepts both the OAuth2 space separated string and a JSON array.
func extractScope(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Fields(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			str, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("scope claim contains %T, want string", s)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("scope claim invalid format %T", raw)
	}
}

func displayName(u *tokenUser) string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Name
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
