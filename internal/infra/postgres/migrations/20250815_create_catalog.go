package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createCatalogSQL = `
CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	position SERIAL,
	data JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS components (
	id TEXT PRIMARY KEY,
	position SERIAL,
	data JSONB NOT NULL
);
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createCatalogSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS components; DROP TABLE IF EXISTS questions`)
			return err
		},
	)
}
