package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate aplica el esquema canónico. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	// sin argumentos pgx usa el protocolo simple y acepta varias sentencias
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
