package program

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/argo-platform/program-service/internal/db/bunx"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/repository"
	"github.com/argo-platform/program-service/internal/services/access"
)

// CreateProgram persists a program with its administrators, then provisions
// its access posture upstream.
//
// The program row is kept when provisioning fails; the returned error wraps
// access.ErrProvisioningFailed and ReconcileProgram can finish the job.
func (s *Service) CreateProgram(ctx context.Context, in CreateInput) (*Details, error) {
	shortName := strings.ToUpper(strings.TrimSpace(in.ShortName))
	if len(in.Admins) == 0 {
		return nil, validationError("at least one admin is required")
	}

	links, err := s.resolveLinks(ctx, in.ProgramInput)
	if err != nil {
		return nil, err
	}

	admins := make([]models.ProgramMembership, 0, len(in.Admins))
	for _, a := range in.Admins {
		a.Role = string(access.RoleAdmin)
		m, err := s.newMembership(ctx, a)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *m)
	}

	p := &models.Program{ID: bunx.NewID(), ShortName: shortName}
	applyInput(p, in.ProgramInput)

	if err := s.programs.Create(ctx, p, links, admins); err != nil {
		return nil, wrapRepoValidation(err)
	}
	s.logger.Info("program created", "program", shortName, "admins", len(admins))

	if err := s.withProgramLock(ctx, shortName, func(ctx context.Context) error {
		e, err := s.entity(ctx, p)
		if err != nil {
			return err
		}
		return s.reconciler.Provision(ctx, e)
	}); err != nil {
		s.logger.Error("program provisioning failed", "program", shortName, "error", err)
		return nil, fmt.Errorf("create program %s: %w", shortName, err)
	}

	return s.details(ctx, p)
}

// GetProgram returns a program by short name.
func (s *Service) GetProgram(ctx context.Context, shortName string) (*Details, error) {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, p)
}

// ListPrograms returns programs matching filter, a go-bexpr expression over
// the fields documented on programFilterFields. An empty filter matches all.
func (s *Service) ListPrograms(ctx context.Context, filter string) ([]models.Program, error) {
	match, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Program, 0, len(programs))
	for i := range programs {
		ok, err := match(&programs[i])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, programs[i])
		}
	}
	return out, nil
}

// UpdateProgram replaces the mutable attributes of a program. The access
// posture does not depend on them, so nothing is reconciled.
func (s *Service) UpdateProgram(ctx context.Context, shortName string, in ProgramInput) (*Details, error) {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}

	links, err := s.resolveLinks(ctx, in)
	if err != nil {
		return nil, err
	}

	applyInput(p, in)
	if err := s.programs.Update(ctx, p, links); err != nil {
		return nil, wrapRepoValidation(err)
	}
	return s.details(ctx, p)
}

// RemoveProgram tears down the program's groups and policy, then deletes its
// rows. When deprovisioning fails the rows are kept so the call can be retried.
func (s *Service) RemoveProgram(ctx context.Context, shortName string) error {
	p, err := s.programs.GetByShortName(ctx, shortName)
	if err != nil {
		return err
	}

	err = s.withProgramLock(ctx, p.ShortName, func(ctx context.Context) error {
		e, err := s.entity(ctx, p)
		if err != nil {
			return err
		}
		if err := s.reconciler.Deprovision(ctx, e); err != nil {
			return err
		}
		return s.programs.Delete(ctx, p.ID)
	})
	if err != nil {
		return fmt.Errorf("remove program %s: %w", p.ShortName, err)
	}

	s.logger.Info("program removed", "program", p.ShortName)
	return nil
}

func (s *Service) resolveLinks(ctx context.Context, in ProgramInput) (repository.Links, error) {
	cancers, err := s.references.ResolveCancers(ctx, in.CancerTypes)
	if err != nil {
		return repository.Links{}, err
	}
	sites, err := s.references.ResolvePrimarySites(ctx, in.PrimarySites)
	if err != nil {
		return repository.Links{}, err
	}
	return repository.Links{CancerIDs: cancers, PrimarySiteIDs: sites}, nil
}

func (s *Service) details(ctx context.Context, p *models.Program) (*Details, error) {
	cancers, err := s.programs.Cancers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	sites, err := s.programs.PrimarySites(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Program:      *p,
		CancerTypes:  make([]string, 0, len(cancers)),
		PrimarySites: make([]string, 0, len(sites)),
	}
	for _, c := range cancers {
		d.CancerTypes = append(d.CancerTypes, c.Name)
	}
	for _, ps := range sites {
		d.PrimarySites = append(d.PrimarySites, ps.Name)
	}
	return d, nil
}

func applyInput(p *models.Program, in ProgramInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.MembershipType = strings.ToUpper(strings.TrimSpace(in.MembershipType))
	p.CommitmentDonors = in.CommitmentDonors
	p.SubmittedDonors = in.SubmittedDonors
	p.GenomicDonors = in.GenomicDonors
	p.Website = in.Website
	p.Institutions = models.StringList(in.Institutions)
	p.Countries = models.StringList(in.Countries)
	p.Regions = models.StringList(in.Regions)
}

// wrapRepoValidation marks model validation failures reported by a repository
// with ErrValidation. Other errors pass through.
func wrapRepoValidation(err error) error {
	if err == nil || errors.Is(err, repository.ErrAlreadyExists) || errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if strings.HasPrefix(err.Error(), "validation failed: ") {
		return fmt.Errorf("%w: %s", ErrValidation, strings.TrimPrefix(err.Error(), "validation failed: "))
	}
	return err
}
