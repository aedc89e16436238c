// Package postgres opens a PostgreSQL database for the storage.Store implementation in sqlstore.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/krisefikser/krisefikser/internal/storage/sqlstore"
)

// New connects to the database at dsn and runs migrations.
func New(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store, err := Open(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Open runs migrations on an existing connection and wraps it.
func Open(ctx context.Context, db *sql.DB) (*sqlstore.Store, error) {
	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return sqlstore.New(db, sqlstore.Postgres), nil
}
