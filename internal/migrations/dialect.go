package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// IsSQLite checks if the database is SQLite
func IsSQLite(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.SQLite
}

// IsPostgreSQL checks if the database is PostgreSQL
func IsPostgreSQL(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.PG
}

// dropTable drops a table, cascading to dependents on PostgreSQL.
func dropTable(ctx context.Context, db *bun.DB, table string) error {
	q := db.NewDropTable().Table(table).IfExists()
	if IsPostgreSQL(db) {
		q = q.Cascade()
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	return nil
}
