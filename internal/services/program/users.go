package program

import (
	"context"
	"fmt"
	"strings"

	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/services/access"
)

// userLookupLimit bounds the identity-service search for one email.
const userLookupLimit = 20

// InviteUser adds a user to a program with a role and syncs that role's group.
func (s *Service) InviteUser(ctx context.Context, shortName string, in UserInput) (*models.ProgramMembership, error) {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}

	m, err := s.newMembership(ctx, in)
	if err != nil {
		return nil, err
	}
	m.ProgramID = p.ID

	if err := s.members.Add(ctx, m); err != nil {
		return nil, wrapRepoValidation(err)
	}
	s.logger.Info("user invited", "program", p.ShortName, "email", m.Email, "role", m.Role)

	if err := s.reconcileRoles(ctx, p, access.Role(m.Role)); err != nil {
		return nil, fmt.Errorf("invite user to %s: %w", p.ShortName, err)
	}
	return m, nil
}

// UpdateUserRole moves a user to another role and syncs both affected groups.
func (s *Service) UpdateUserRole(ctx context.Context, shortName, email, role string) (*models.ProgramMembership, error) {
	newRole, err := access.ParseRole(role)
	if err != nil {
		return nil, validationError("%v", err)
	}

	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}
	current, err := s.members.Get(ctx, p.ID, email)
	if err != nil {
		return nil, err
	}

	oldRole := access.Role(current.Role)
	if oldRole == newRole {
		return current, nil
	}

	if err := s.members.UpdateRole(ctx, p.ID, email, string(newRole)); err != nil {
		return nil, err
	}
	s.logger.Info("user role updated", "program", p.ShortName, "email", current.Email, "from", oldRole, "to", newRole)

	if err := s.reconcileRoles(ctx, p, oldRole, newRole); err != nil {
		return nil, fmt.Errorf("update user role in %s: %w", p.ShortName, err)
	}
	return s.members.Get(ctx, p.ID, email)
}

// RemoveUser removes a user from a program and syncs the role's group.
func (s *Service) RemoveUser(ctx context.Context, shortName, email string) error {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return err
	}
	current, err := s.members.Get(ctx, p.ID, email)
	if err != nil {
		return err
	}

	if err := s.members.Remove(ctx, p.ID, email); err != nil {
		return err
	}
	s.logger.Info("user removed", "program", p.ShortName, "email", current.Email, "role", current.Role)

	if err := s.reconcileRoles(ctx, p, access.Role(current.Role)); err != nil {
		return fmt.Errorf("remove user from %s: %w", p.ShortName, err)
	}
	return nil
}

// ListUsers returns the members of a program.
func (s *Service) ListUsers(ctx context.Context, shortName string) ([]models.ProgramMembership, error) {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}
	return s.members.List(ctx, p.ID)
}

// newMembership validates a user input and resolves the identity-service user id.
func (s *Service) newMembership(ctx context.Context, in UserInput) (*models.ProgramMembership, error) {
	role, err := access.ParseRole(in.Role)
	if err != nil {
		return nil, validationError("%v", err)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, validationError("email is required")
	}

	userID, err := s.lookupUserID(ctx, email)
	if err != nil {
		return nil, err
	}

	return &models.ProgramMembership{
		Email:     email,
		UserID:    userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      string(role),
	}, nil
}

// lookupUserID finds the identity-service user whose email matches exactly.
func (s *Service) lookupUserID(ctx context.Context, email string) (string, error) {
	page, err := s.users.ListUsers(ctx, identity.ListOptions{Query: email, Limit: userLookupLimit})
	if err != nil {
		return "", fmt.Errorf("look up user %s: %w", email, err)
	}
	for _, u := range page.ResultSet {
		if strings.EqualFold(u.Email, email) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownUser, email)
}
