package db

import (
	"context"
	"fmt"
	"time"

	"github.com/callready/scriptd/common/config"
	"github.com/callready/scriptd/common/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 3 * time.Second
)

// DB is the shared Postgres connection pool. pgxpool.Pool is embedded, so
// the store issues Exec/Query/QueryRow against it directly.
type DB struct {
	*pgxpool.Pool
	log *logger.Logger
}

// New opens a pool from the database settings and verifies connectivity
// before handing it out
func New(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected",
		"host", cfg.Host,
		"database", cfg.Database,
		"max_conns", cfg.MaxConns,
	)

	return &DB{Pool: pool, log: log}, nil
}

// Close releases every pooled connection
func (db *DB) Close() {
	db.log.Info("closing database pool")
	db.Pool.Close()
}

// Health pings the database with a short deadline
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return db.Pool.Ping(ctx)
}
