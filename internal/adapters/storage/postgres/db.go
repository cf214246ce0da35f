package postgres

import (
	"context"
	"database/sql"
	"time"

	"sistpec-api/internal/ports/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound se mantiene como alias del error neutral de storage.
var ErrNotFound = storage.ErrNotFound

// Open abre un pool de conexiones a Postgres usando pgx (database/sql).
func Open(dsn string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := Ping(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Ping verifica la conexión con un límite de 3s.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
