package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/bunx"
	"github.com/argo-platform/program-service/internal/db/models"
)

// BunMembershipRepository persists program memberships using Bun ORM.
// Emails are stored lower-cased so lookups are case-insensitive.
type BunMembershipRepository struct {
	db *bun.DB
}

// NewBunMembershipRepository constructs a repository backed by Bun.
func NewBunMembershipRepository(db *bun.DB) *BunMembershipRepository {
	return &BunMembershipRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Add inserts a membership. A user may hold one role per program.
func (r *BunMembershipRepository) Add(ctx context.Context, m *models.ProgramMembership) error {
	m.Email = normalizeEmail(m.Email)
	if m.ID == uuid.Nil {
		m.ID = bunx.NewID()
	}
	if err := m.ValidateForCreate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(m).Exec(ctx); err != nil {
		if bunx.IsUniqueViolation(err) {
			return fmt.Errorf("user '%s' is a member of the program: %w", m.Email, ErrAlreadyExists)
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// Get fetches the membership of one user in a program.
func (r *BunMembershipRepository) Get(ctx context.Context, programID uuid.UUID, email string) (*models.ProgramMembership, error) {
	m := new(models.ProgramMembership)
	err := r.db.NewSelect().
		Model(m).
		Where("program_id = ?", programID).
		Where("email = ?", normalizeEmail(email)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("membership for '%s' %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("query membership: %w", err)
	}
	return m, nil
}

// List returns every membership of a program ordered by email.
func (r *BunMembershipRepository) List(ctx context.Context, programID uuid.UUID) ([]models.ProgramMembership, error) {
	members := []models.ProgramMembership{}
	err := r.db.NewSelect().
		Model(&members).
		Where("program_id = ?", programID).
		Order("email ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return members, nil
}

// UpdateRole changes the role a user holds in a program.
func (r *BunMembershipRepository) UpdateRole(ctx context.Context, programID uuid.UUID, email, role string) error {
	result, err := r.db.NewUpdate().
		Model((*models.ProgramMembership)(nil)).
		Set("role = ?", role).
		Set("updated_at = ?", time.Now()).
		Where("program_id = ?", programID).
		Where("email = ?", normalizeEmail(email)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("membership for '%s' %w", email, ErrNotFound)
	}
	return nil
}

// Remove deletes the membership of one user in a program.
func (r *BunMembershipRepository) Remove(ctx context.Context, programID uuid.UUID, email string) error {
	result, err := r.db.NewDelete().
		Model((*models.ProgramMembership)(nil)).
		Where("program_id = ?", programID).
		Where("email = ?", normalizeEmail(email)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("membership for '%s' %w", email, ErrNotFound)
	}
	return nil
}
