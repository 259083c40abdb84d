package server

import (
	"encoding/json"
	"net/http"

	"github.com/argo-platform/program-service/internal/auth"
)

type whoAmIResponse struct {
	Subject     string   `json:"subject"`
	Type        string   `json:"type"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name,omitempty"`
	Authorities []string `json:"authorities"`
}

// HandleWhoAmI returns the principal established for the request.
// Anonymous callers get 401.
func HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	authorities := principal.Authorities
	if authorities == nil {
		authorities = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(whoAmIResponse{
		Subject:     principal.Subject,
		Type:        string(principal.Type),
		Email:       principal.Email,
		Name:        principal.Name,
		Authorities: authorities,
	})
}
