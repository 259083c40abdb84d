package access

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/argo-platform/program-service/internal/auth"
)

// Entity is the reconciler's view of a program: identity plus the desired
// members of each role, expressed as identity-service user ids.
type Entity struct {
	ID        uuid.UUID
	ShortName string
	CreatedAt time.Time
	Members   map[Role][]string
}

func (e Entity) validate() error {
	if e.ID == uuid.Nil {
		return errors.New("entity id is required")
	}
	if e.ShortName == "" {
		return errors.New("entity short name is required")
	}
	for role := range e.Members {
		if !role.Valid() {
			return errors.New("entity has members for unknown role " + string(role))
		}
	}
	return nil
}

// PolicyName is the identity-service policy owning the entity.
// Example: PolicyName("TEST-CA") → "PROGRAM-TEST-CA"
func PolicyName(shortName string) string {
	return auth.ProgramPolicyName(shortName)
}

// GroupName is the identity-service group holding one role of the entity.
// Example: GroupName("TEST-CA", RoleAdmin) → "PROGRAM-TEST-CA-ADMIN"
func GroupName(shortName string, role Role) string {
	return PolicyName(shortName) + "-" + string(role)
}

// Binding records which identity-service group holds a role of an entity.
// At most one binding exists per (EntityID, Role).
type Binding struct {
	EntityID  uuid.UUID
	Role      Role
	GroupID   string
	GroupName string
}
