package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/payform/acceptance/internal/config"
)

// pingTimeout bounds the connectivity check done when a connection is opened
const pingTimeout = 5 * time.Second

// Open establishes a database/sql connection to the payment store through lib/pq
// and verifies it with a ping. A failed ping is reported as ErrUnreachable.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("connecting to payment store", "driver", config.DriverPQ, "dsn", cfg.Redacted())

	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", ErrUnreachable, err)
	}

	return db, nil
}

// OpenPool establishes a pgx connection pool to the payment store and pings it
func OpenPool(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	pgxCfg, err := cfg.PgxConfig(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("connecting to payment store", "driver", config.DriverPgx, "dsn", cfg.Redacted())

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", ErrUnreachable, err)
	}

	logger.Debug("connection pool ready", "max_conns", pgxCfg.MaxConns, "min_conns", pgxCfg.MinConns)

	return pool, nil
}
