package db

import (
	"context"
	"fmt"

	"daily-menu/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

// Init opens the shared pool and checks that the database answers.
func Init(ctx context.Context, cfg config.DBConfig) error {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	Pool = pool
	return nil
}

// Ping reports whether the pool is initialized and reachable.
func Ping(ctx context.Context) error {
	if Pool == nil {
		return fmt.Errorf("database not initialized")
	}
	return Pool.Ping(ctx)
}

func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
