// Package migrations embeds the schema and runs it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

var ErrNoCommand = errors.New("migrate: missing command (up, down, status, redo, reset, version, up-to, down-to)")

var gooseRunFunc = goose.RunContext // mockable

// Run executes a goose command such as "up" or "down-to 3" against db.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if command == "" {
		return ErrNoCommand
	}

	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return gooseRunFunc(ctx, command, db, dir, args...)
}
