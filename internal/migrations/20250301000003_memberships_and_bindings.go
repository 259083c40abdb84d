package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250301000003, down_20250301000003)
}

// up_20250301000003 creates program_memberships and role_group_bindings
func up_20250301000003(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating program_memberships table...")
	_, err := db.NewCreateTable().
		Model((*models.ProgramMembership)(nil)).
		IfNotExists().
		ForeignKey(`(program_id) REFERENCES programs(id) ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create program_memberships table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_program_memberships_role ON program_memberships(program_id, role)`)
	if err != nil {
		return fmt.Errorf("failed to create index on program_memberships(program_id, role): %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating role_group_bindings table...")
	_, err = db.NewCreateTable().
		Model((*models.RoleGroupBinding)(nil)).
		IfNotExists().
		ForeignKey(`(program_id) REFERENCES programs(id) ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create role_group_bindings table: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250301000003 drops memberships and bindings
func down_20250301000003(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping membership tables...")

	for _, table := range []string{"role_group_bindings", "program_memberships"} {
		if err := dropTable(ctx, db, table); err != nil {
			return err
		}
	}

	fmt.Println(" OK")
	return nil
}
