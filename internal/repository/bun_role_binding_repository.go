package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/bunx"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/services/access"
)

// BunRoleBindingRepository stores role to group bindings. It implements
// access.BindingStore.
type BunRoleBindingRepository struct {
	db *bun.DB
}

// NewBunRoleBindingRepository constructs a repository backed by Bun.
func NewBunRoleBindingRepository(db *bun.DB) *BunRoleBindingRepository {
	return &BunRoleBindingRepository{db: db}
}

var _ access.BindingStore = (*BunRoleBindingRepository)(nil)

// ListBindings returns every binding of a program.
func (r *BunRoleBindingRepository) ListBindings(ctx context.Context, entityID uuid.UUID) ([]access.Binding, error) {
	var rows []models.RoleGroupBinding
	err := r.db.NewSelect().
		Model(&rows).
		Where("program_id = ?", entityID).
		Order("role ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list role bindings: %w", err)
	}

	bindings := make([]access.Binding, 0, len(rows))
	for _, row := range rows {
		bindings = append(bindings, access.Binding{
			EntityID:  row.ProgramID,
			Role:      access.Role(row.Role),
			GroupID:   row.GroupID,
			GroupName: row.GroupName,
		})
	}
	return bindings, nil
}

// SaveBinding upserts the binding for (EntityID, Role).
func (r *BunRoleBindingRepository) SaveBinding(ctx context.Context, binding access.Binding) error {
	now := time.Now()
	row := &models.RoleGroupBinding{
		ID:        bunx.NewID(),
		ProgramID: binding.EntityID,
		Role:      string(binding.Role),
		GroupID:   binding.GroupID,
		GroupName: binding.GroupName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (program_id, role) DO UPDATE").
		Set("group_id = EXCLUDED.group_id").
		Set("group_name = EXCLUDED.group_name").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save role binding %s/%s: %w", binding.EntityID, binding.Role, err)
	}
	return nil
}

// DeleteBinding removes the binding for (entityID, role). Missing rows are ignored.
func (r *BunRoleBindingRepository) DeleteBinding(ctx context.Context, entityID uuid.UUID, role access.Role) error {
	_, err := r.db.NewDelete().
		Model((*models.RoleGroupBinding)(nil)).
		Where("program_id = ?", entityID).
		Where("role = ?", string(role)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete role binding %s/%s: %w", entityID, role, err)
	}
	return nil
}
