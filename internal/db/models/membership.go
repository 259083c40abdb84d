package models

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProgramMembership records that a user holds a role on a program.
// A user holds at most one role per program.
type ProgramMembership struct {
	bun.BaseModel `bun:"table:program_memberships,alias:pm"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ProgramID uuid.UUID `bun:"program_id,notnull,type:uuid,unique:program_email"`
	Email     string    `bun:"email,notnull,unique:program_email"`
	UserID    string    `bun:"user_id,notnull"` // identity-service user id
	FirstName string    `bun:"first_name"`
	LastName  string    `bun:"last_name"`
	Role      string    `bun:"role,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (m *ProgramMembership) ValidateForCreate() error {
	if m.ProgramID == uuid.Nil {
		return errors.New("program_id is required")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return errors.New("email is invalid")
	}
	if m.UserID == "" {
		return errors.New("user_id is required")
	}
	if m.Role == "" {
		return errors.New("role is required")
	}
	return nil
}

// RoleGroupBinding relates one program role to exactly one identity-service group.
type RoleGroupBinding struct {
	bun.BaseModel `bun:"table:role_group_bindings,alias:rgb"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ProgramID uuid.UUID `bun:"program_id,notnull,type:uuid,unique:program_role"`
	Role      string    `bun:"role,notnull,unique:program_role"`
	GroupID   string    `bun:"group_id,notnull"`
	GroupName string    `bun:"group_name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
