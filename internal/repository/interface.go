package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/services/access"
)

// ProgramRepository exposes persistence operations for programs and their
// cancer and primary site links.
type ProgramRepository interface {
	// Create inserts the program, its links and initial memberships in one transaction.
	Create(ctx context.Context, program *models.Program, links Links, members []models.ProgramMembership) error
	GetByShortName(ctx context.Context, shortName string) (*models.Program, error)
	List(ctx context.Context) ([]models.Program, error)
	// Update replaces mutable columns and the full set of links.
	Update(ctx context.Context, program *models.Program, links Links) error
	// Delete removes the program; memberships, links and bindings cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	Cancers(ctx context.Context, programID uuid.UUID) ([]models.Cancer, error)
	PrimarySites(ctx context.Context, programID uuid.UUID) ([]models.PrimarySite, error)
}

// Links are the reference rows a program points at.
type Links struct {
	CancerIDs      []uuid.UUID
	PrimarySiteIDs []uuid.UUID
}

// ReferenceRepository reads seeded reference data.
type ReferenceRepository interface {
	ListCancers(ctx context.Context) ([]models.Cancer, error)
	ListPrimarySites(ctx context.Context) ([]models.PrimarySite, error)
	GetCancerByName(ctx context.Context, name string) (*models.Cancer, error)
	GetPrimarySiteByName(ctx context.Context, name string) (*models.PrimarySite, error)
}

// MembershipRepository exposes persistence operations for program memberships.
type MembershipRepository interface {
	Add(ctx context.Context, membership *models.ProgramMembership) error
	Get(ctx context.Context, programID uuid.UUID, email string) (*models.ProgramMembership, error)
	List(ctx context.Context, programID uuid.UUID) ([]models.ProgramMembership, error)
	UpdateRole(ctx context.Context, programID uuid.UUID, email, role string) error
	Remove(ctx context.Context, programID uuid.UUID, email string) error
}

// RoleBindingRepository persists role to group bindings for the reconciler.
type RoleBindingRepository interface {
	access.BindingStore
}
