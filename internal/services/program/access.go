package program

import (
	"context"

	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/services/access"
)

// ReconcileProgram re-runs provisioning for a program from its current rows.
func (s *Service) ReconcileProgram(ctx context.Context, shortName string) error {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return err
	}
	return s.withProgramLock(ctx, p.ShortName, func(ctx context.Context) error {
		e, err := s.entity(ctx, p)
		if err != nil {
			return err
		}
		return s.reconciler.Provision(ctx, e)
	})
}

// DeprovisionProgram removes a program's groups and policy upstream but keeps
// its rows. A later ReconcileProgram restores them.
func (s *Service) DeprovisionProgram(ctx context.Context, shortName string) error {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return err
	}
	return s.withProgramLock(ctx, p.ShortName, func(ctx context.Context) error {
		e, err := s.entity(ctx, p)
		if err != nil {
			return err
		}
		return s.reconciler.Deprovision(ctx, e)
	})
}

// AccessStatus compares the program's upstream state with its rows without
// changing anything.
func (s *Service) AccessStatus(ctx context.Context, shortName string) (*access.Status, error) {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}
	e, err := s.entity(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Status(ctx, e)
}

// reconcileRoles syncs the given roles' groups with the database under the program lock.
func (s *Service) reconcileRoles(ctx context.Context, p *models.Program, roles ...access.Role) error {
	return s.withProgramLock(ctx, p.ShortName, func(ctx context.Context) error {
		e, err := s.entity(ctx, p)
		if err != nil {
			return err
		}
		for _, role := range roles {
			if err := s.reconciler.ReconcileMembers(ctx, e, role, e.Members[role]); err != nil {
				return err
			}
		}
		return nil
	})
}

// entity builds the reconciler's view of a program from its membership rows.
func (s *Service) entity(ctx context.Context, p *models.Program) (access.Entity, error) {
	members, err := s.members.List(ctx, p.ID)
	if err != nil {
		return access.Entity{}, err
	}

	e := access.Entity{
		ID:        p.ID,
		ShortName: p.ShortName,
		CreatedAt: p.CreatedAt,
		Members:   make(map[access.Role][]string),
	}
	for _, m := range members {
		role := access.Role(m.Role)
		e.Members[role] = append(e.Members[role], m.UserID)
	}
	return e, nil
}
