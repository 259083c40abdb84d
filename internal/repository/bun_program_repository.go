package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/bunx"
	"github.com/argo-platform/program-service/internal/db/models"
)

// BunProgramRepository persists programs using Bun ORM.
type BunProgramRepository struct {
	db *bun.DB
}

// NewBunProgramRepository constructs a repository backed by Bun.
func NewBunProgramRepository(db *bun.DB) *BunProgramRepository {
	return &BunProgramRepository{db: db}
}

// Create inserts a program with its links and initial memberships.
func (r *BunProgramRepository) Create(ctx context.Context, program *models.Program, links Links, members []models.ProgramMembership) error {
	if err := program.ValidateForCreate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	program.CreatedAt = now
	program.UpdatedAt = now

	for i := range members {
		members[i].ProgramID = program.ID
		if members[i].ID == uuid.Nil {
			members[i].ID = bunx.NewID()
		}
		members[i].CreatedAt = now
		members[i].UpdatedAt = now
		if err := members[i].ValidateForCreate(); err != nil {
			return fmt.Errorf("validation failed: member %s: %w", members[i].Email, err)
		}
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(program).Exec(ctx); err != nil {
			if bunx.IsUniqueViolation(err) {
				return fmt.Errorf("program with short_name '%s' %w", program.ShortName, ErrAlreadyExists)
			}
			return fmt.Errorf("insert program: %w", err)
		}

		if err := insertLinks(ctx, tx, program.ID, links); err != nil {
			return err
		}

		if len(members) > 0 {
			if _, err := tx.NewInsert().Model(&members).Exec(ctx); err != nil {
				if bunx.IsUniqueViolation(err) {
					return fmt.Errorf("duplicate member email in program '%s': %w", program.ShortName, ErrAlreadyExists)
				}
				return fmt.Errorf("insert memberships: %w", err)
			}
		}
		return nil
	})
}

// GetByShortName fetches a program by its short name.
func (r *BunProgramRepository) GetByShortName(ctx context.Context, shortName string) (*models.Program, error) {
	program := new(models.Program)
	err := r.db.NewSelect().Model(program).Where("short_name = ?", shortName).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program '%s' %w", shortName, ErrNotFound)
		}
		return nil, fmt.Errorf("query program: %w", err)
	}
	return program, nil
}

// List returns all programs ordered by short name.
func (r *BunProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := r.db.NewSelect().Model(&programs).Order("short_name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}

	if programs == nil {
		programs = []models.Program{}
	}
	return programs, nil
}

// Update persists mutable program columns and replaces its links.
func (r *BunProgramRepository) Update(ctx context.Context, program *models.Program, links Links) error {
	if err := program.ValidateForUpdate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	program.UpdatedAt = time.Now()

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(program).
			Column("name", "description", "membership_type", "commitment_donors", "submitted_donors",
				"genomic_donors", "website", "institutions", "countries", "regions", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update program: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("program '%s' %w", program.ShortName, ErrNotFound)
		}

		if _, err := tx.NewDelete().Model((*models.ProgramCancer)(nil)).Where("program_id = ?", program.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear program cancers: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.ProgramPrimarySite)(nil)).Where("program_id = ?", program.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear program primary sites: %w", err)
		}
		return insertLinks(ctx, tx, program.ID, links)
	})
}

// Delete removes a program. Dependent rows are removed by ON DELETE CASCADE.
func (r *BunProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().Model((*models.Program)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("program with id '%s' %w", id, ErrNotFound)
	}
	return nil
}

// Cancers returns the cancers linked to a program.
func (r *BunProgramRepository) Cancers(ctx context.Context, programID uuid.UUID) ([]models.Cancer, error) {
	cancers := []models.Cancer{}
	err := r.db.NewSelect().
		Model(&cancers).
		Join("JOIN program_cancers AS pc ON pc.cancer_id = c.id").
		Where("pc.program_id = ?", programID).
		Order("c.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list program cancers: %w", err)
	}
	return cancers, nil
}

// PrimarySites returns the primary sites linked to a program.
func (r *BunProgramRepository) PrimarySites(ctx context.Context, programID uuid.UUID) ([]models.PrimarySite, error) {
	sites := []models.PrimarySite{}
	err := r.db.NewSelect().
		Model(&sites).
		Join("JOIN program_primary_sites AS pps ON pps.primary_site_id = ps.id").
		Where("pps.program_id = ?", programID).
		Order("ps.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list program primary sites: %w", err)
	}
	return sites, nil
}

func insertLinks(ctx context.Context, tx bun.Tx, programID uuid.UUID, links Links) error {
	if len(links.CancerIDs) > 0 {
		rows := make([]models.ProgramCancer, 0, len(links.CancerIDs))
		for _, id := range dedupeIDs(links.CancerIDs) {
			rows = append(rows, models.ProgramCancer{ProgramID: programID, CancerID: id})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert program cancers: %w", err)
		}
	}

	if len(links.PrimarySiteIDs) > 0 {
		rows := make([]models.ProgramPrimarySite, 0, len(links.PrimarySiteIDs))
		for _, id := range dedupeIDs(links.PrimarySiteIDs) {
			rows = append(rows, models.ProgramPrimarySite{ProgramID: programID, PrimarySiteID: id})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert program primary sites: %w", err)
		}
	}
	return nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
