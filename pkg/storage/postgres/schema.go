package postgres

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the contacts table when it does not exist yet.
func EnsureSchema(ctx context.Context, db dbExecutor) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
