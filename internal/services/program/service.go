// Package program implements the program lifecycle on top of the repositories
// and keeps each program's identity-service access posture in step with it.
package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/identity"
	"github.com/argo-platform/program-service/internal/lock"
	"github.com/argo-platform/program-service/internal/repository"
	"github.com/argo-platform/program-service/internal/services/access"
)

var (
	// ErrValidation wraps every rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownUser is returned when an email matches no identity-service user.
	ErrUnknownUser = errors.New("user not registered with the identity service")
)

// Reconciler is the access-control surface the service drives.
// *access.Reconciler implements it.
type Reconciler interface {
	Provision(ctx context.Context, e access.Entity) error
	ReconcileMembers(ctx context.Context, e access.Entity, role access.Role, desired []string) error
	Deprovision(ctx context.Context, e access.Entity) error
	Status(ctx context.Context, e access.Entity) (*access.Status, error)
}

// UserDirectory looks users up in the identity service. *identity.Client implements it.
type UserDirectory interface {
	ListUsers(ctx context.Context, opts identity.ListOptions) (*identity.Page[identity.User], error)
}

// ReferenceResolver maps reference names to ids. *reference.Service implements it.
type ReferenceResolver interface {
	ResolveCancers(ctx context.Context, names []string) ([]uuid.UUID, error)
	ResolvePrimarySites(ctx context.Context, names []string) ([]uuid.UUID, error)
}

// Dependencies bundles the collaborators of a Service.
type Dependencies struct {
	Programs   repository.ProgramRepository
	Members    repository.MembershipRepository
	References ReferenceResolver
	Users      UserDirectory
	Reconciler Reconciler
	Locker     lock.Locker
	Logger     *slog.Logger
}

// Service orchestrates program persistence and access reconciliation for RPC
// handlers and the operator CLI.
//
// Reconciliation for one program is serialized through the Locker keyed by
// short name, and always reads the desired membership from the database
// inside the lock, so concurrent membership changes converge.
type Service struct {
	programs   repository.ProgramRepository
	members    repository.MembershipRepository
	references ReferenceResolver
	users      UserDirectory
	reconciler Reconciler
	locker     lock.Locker
	logger     *slog.Logger
}

// NewService constructs a Service. Every dependency except Logger is required.
func NewService(deps Dependencies) (*Service, error) {
	switch {
	case deps.Programs == nil:
		return nil, errors.New("program service requires a program repository")
	case deps.Members == nil:
		return nil, errors.New("program service requires a membership repository")
	case deps.References == nil:
		return nil, errors.New("program service requires a reference resolver")
	case deps.Users == nil:
		return nil, errors.New("program service requires a user directory")
	case deps.Reconciler == nil:
		return nil, errors.New("program service requires a reconciler")
	case deps.Locker == nil:
		return nil, errors.New("program service requires a locker")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		programs:   deps.Programs,
		members:    deps.Members,
		references: deps.References,
		users:      deps.Users,
		reconciler: deps.Reconciler,
		locker:     deps.Locker,
		logger:     logger.With("component", "program"),
	}, nil
}

// ProgramInput carries the mutable attributes of a program.
type ProgramInput struct {
	Name             string
	Description      string
	MembershipType   string
	CommitmentDonors int
	SubmittedDonors  int
	GenomicDonors    int
	Website          string
	Institutions     []string
	Countries        []string
	Regions          []string
	CancerTypes      []string
	PrimarySites     []string
}

// UserInput identifies a user joining a program.
type UserInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// CreateInput describes a new program and its initial administrators.
type CreateInput struct {
	ShortName string
	ProgramInput
	Admins []UserInput
}

// Details is a program with its reference links resolved to names.
type Details struct {
	Program      models.Program
	CancerTypes  []string
	PrimarySites []string
}

// withProgramLock runs fn while holding the program's reconciliation lock.
func (s *Service) withProgramLock(ctx context.Context, shortName string, fn func(ctx context.Context) error) error {
	start := time.Now()
	release, err := s.locker.Lock(ctx, shortName)
	if err != nil {
		return fmt.Errorf("lock program %s: %w", shortName, err)
	}
	defer release()

	s.logger.Debug("program lock acquired", "program", shortName, "waited", time.Since(start))
	return fn(ctx)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
