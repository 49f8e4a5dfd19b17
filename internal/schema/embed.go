// Package schema carries the goose migrations for the remote `vaults` table
// and applies them to the managed Postgres database.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// Up applies every pending migration and returns the resulting version.
func Up(ctx context.Context, db *sql.DB) (int64, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, Migrations)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return p.GetDBVersion(ctx)
}
