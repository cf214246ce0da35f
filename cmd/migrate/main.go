// Command migrate aplica el esquema de Postgres (idempotente).
package main

import (
	"context"
	"os"
	"time"

	pg "sistpec-api/internal/adapters/storage/postgres"
	"sistpec-api/internal/config"
	"sistpec-api/internal/platform/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv()

	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		log.Error("DB_DSN or DB_HOST is required", nil)
		os.Exit(1)
	}

	db, err := pg.Open(dsn, 1)
	if err != nil {
		log.Error("database connection failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := pg.Migrate(ctx, db); err != nil {
		log.Error("migration failed", map[string]any{"error": err})
		os.Exit(1)
	}
	log.Info("schema up to date", nil)
}
