// Package db provides PostgreSQL (pgx) and SQLite (modernc) storage for rift
// rooms and NPC templates.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/la2go-rift/internal/db/migrations"
)

// OpenPostgres connects to PostgreSQL and applies pending migrations.
// The caller owns the returned pool.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate runs the embedded goose migrations through pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// goose работает с *sql.DB; обёртка не закрывает сам pool
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	return migrations.Up(ctx, sqlDB, goose.DialectPostgres)
}
