package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/argo-platform/program-service/internal/db/bunx"
	"github.com/argo-platform/program-service/internal/db/models"
	"github.com/argo-platform/program-service/internal/migrations"
)

// setupTestDB opens an in-memory SQLite database with all migrations applied.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	return db
}

func newProgram(shortName string) *models.Program {
	return &models.Program{
		ID:             bunx.NewID(),
		ShortName:      shortName,
		Name:           "Program " + shortName,
		MembershipType: models.MembershipFull,
		Countries:      models.StringList{"Canada"},
	}
}

func cancerID(name string) uuid.UUID {
	return migrations.ReferenceID("cancer", name)
}

func siteID(name string) uuid.UUID {
	return migrations.ReferenceID("primary_site", name)
}
