package access

import (
	"fmt"
	"strings"

	"github.com/argo-platform/program-service/internal/identity"
)

// Role is a level of participation in a program. The set is closed.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleCurator      Role = "CURATOR"
	RoleSubmitter    Role = "SUBMITTER"
	RoleCollaborator Role = "COLLABORATOR"
	RoleBanned       Role = "BANNED"
)

// Roles lists every role in provisioning order.
var Roles = []Role{RoleAdmin, RoleCurator, RoleSubmitter, RoleCollaborator, RoleBanned}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// MaskTable maps each role to the mask the program policy grants its group.
type MaskTable map[Role]identity.Mask

// DefaultMasks returns the role to mask table used for every program.
func DefaultMasks() MaskTable {
	return MaskTable{
		RoleAdmin:        identity.MaskWrite,
		RoleCurator:      identity.MaskWrite,
		RoleSubmitter:    identity.MaskRead,
		RoleCollaborator: identity.MaskRead,
		RoleBanned:       identity.MaskDeny,
	}
}

// MaskFor returns the mask for role.
func (t MaskTable) MaskFor(role Role) (identity.Mask, bool) {
	m, ok := t[role]
	return m, ok
}

func (t MaskTable) validate() error {
	for _, role := range Roles {
		m, ok := t[role]
		if !ok {
			return fmt.Errorf("mask table has no entry for role %s", role)
		}
		if !m.Valid() {
			return fmt.Errorf("mask table maps role %s to invalid mask %q", role, m)
		}
	}
	return nil
}

// clone copies the table so later edits by the caller are not observed.
func (t MaskTable) clone() MaskTable {
	out := make(MaskTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
