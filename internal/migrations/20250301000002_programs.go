package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250301000002, down_20250301000002)
}

// up_20250301000002 creates programs and their cancer / primary site links
func up_20250301000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating programs table...")
	_, err := db.NewCreateTable().
		Model((*models.Program)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create programs table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating program_cancers table...")
	_, err = db.NewCreateTable().
		Model((*models.ProgramCancer)(nil)).
		IfNotExists().
		ForeignKey(`(program_id) REFERENCES programs(id) ON DELETE CASCADE`).
		ForeignKey(`(cancer_id) REFERENCES cancers(id)`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create program_cancers table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating program_primary_sites table...")
	_, err = db.NewCreateTable().
		Model((*models.ProgramPrimarySite)(nil)).
		IfNotExists().
		ForeignKey(`(program_id) REFERENCES programs(id) ON DELETE CASCADE`).
		ForeignKey(`(primary_site_id) REFERENCES primary_sites(id)`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create program_primary_sites table: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250301000002 drops the program tables
func down_20250301000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping program tables...")

	for _, table := range []string{"program_primary_sites", "program_cancers", "programs"} {
		if err := dropTable(ctx, db, table); err != nil {
			return err
		}
	}

	fmt.Println(" OK")
	return nil
}
