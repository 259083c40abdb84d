package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250301000001, down_20250301000001)
}

// up_20250301000001 creates the cancers and primary_sites tables
func up_20250301000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating reference tables...")

	for _, model := range []any{(*models.Cancer)(nil), (*models.PrimarySite)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create reference table: %w", err)
		}
	}

	fmt.Println(" OK")
	return nil
}

// down_20250301000001 drops the reference tables
func down_20250301000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping reference tables...")

	for _, model := range []any{(*models.PrimarySite)(nil), (*models.Cancer)(nil)} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop reference table: %w", err)
		}
	}

	fmt.Println(" OK")
	return nil
}
