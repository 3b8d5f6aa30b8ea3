package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/officeplus/faq-api/config"
	"github.com/officeplus/faq-api/internal/migrate"
)

const pingTimeout = 5 * time.Second

// ConnectDB opens the Postgres pool and verifies it with a ping.
func ConnectDB(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MinConns = int32(cfg.PoolMin) //nolint:gosec // clamped by Sanitize
	poolCfg.MaxConns = int32(cfg.PoolMax) //nolint:gosec // clamped by Sanitize
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if pingErr := pool.Ping(pingCtx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database connected",
			"dsn", cfg.MaskedConnString(),
			"pool_min", cfg.PoolMin,
			"pool_max", cfg.PoolMax,
		)
	}
	return pool, nil
}

// RunMigrations applies the embedded schema through a database/sql view of pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if pool == nil {
		return errors.New("database pool is required")
	}
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	applied, err := migrate.Run(ctx, db)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed", "applied", applied)
	}
	return nil
}

// MigrationStatus lists the migrations recorded in the database.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool) ([]migrate.Applied, error) {
	if pool == nil {
		return nil, errors.New("database pool is required")
	}
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()
	return migrate.Status(ctx, db)
}
