// Package migrations embeds the goose SQL migrations.
//
// platform/ holds the service's own schema (permissions, property listing, ML
// models). project/ holds the users and properties tables every Postgres-backed
// project is expected to have; it is applied to project databases only when
// the service owns them (local development).
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed platform/*.sql project/*.sql
var Migrations embed.FS

// Schema directories inside Migrations.
const (
	PlatformDir = "platform"
	ProjectDir  = "project"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies every pending migration in dir to db.
func Up(ctx context.Context, db *sql.DB, dir string) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", dir, err)
	}
	return nil
}
