package checkers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errSchemaMissing = errors.New("orders table is missing, run migrations")

// PostgresChecker pings the pool and confirms the orders schema is in place.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := c.pool.Ping(ctx); err != nil {
		return err
	}
	var present bool
	if err := c.pool.QueryRow(ctx, `SELECT to_regclass('orders') IS NOT NULL`).Scan(&present); err != nil {
		return err
	}
	if !present {
		return errSchemaMissing
	}
	return nil
}
