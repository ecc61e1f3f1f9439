package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// applicationName aparece en pg_stat_activity.
	applicationName = "inventory-api"
	connectTimeout  = 5 * time.Second
)

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

// Hooks reemplazables desde los tests.
var (
	newPool   = pgxpool.NewWithConfig
	pingPool  = func(ctx context.Context, pool poolPinger) error { return pool.Ping(ctx) }
	closePool = func(pool poolPinger) { pool.Close() }
)

// NewPool abre el pool de PostgreSQL y exige un ping exitoso antes de devolverlo.
// Conexión y ping comparten el mismo timeout de arranque.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
