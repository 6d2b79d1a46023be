package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"overture/pkg/overture"
)

// Pool sizing for the health probe. The entrypoint only ever needs one
// connection; a second keeps Ping from blocking behind a stuck probe.
const (
	probeMaxConns = 2
	probeMinConns = 0
)

// PoolPinger implements overture.Pinger on a pgx connection pool.
// Each Ping is a full round trip (SELECT 1), not just a socket dial, so a
// server that accepts TCP but is still in recovery does not count as up.
type PoolPinger struct {
	pool *pgxpool.Pool
}

// NewPoolPinger builds a pinger from a raw connection descriptor. An empty
// descriptor is valid: pgx then falls back to libpq environment variables
// and defaults, which mirrors what the maintenance commands will see.
//
// The descriptor may be attacker-or-operator supplied; error values
// returned here never echo it back.
func NewPoolPinger(ctx context.Context, connString string) (*PoolPinger, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("connection descriptor rejected by driver")
	}
	cfg.MaxConns = probeMaxConns
	cfg.MinConns = probeMinConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &PoolPinger{pool: pool}, nil
}

// Ping performs the round-trip health query.
func (p *PoolPinger) Ping(ctx context.Context) error {
	var one int
	if err := p.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health query: %w", err)
	}
	return nil
}

// Close releases the pool.
func (p *PoolPinger) Close() {
	p.pool.Close()
}

var _ overture.Pinger = (*PoolPinger)(nil)
