package scaffold

// renderDB renders src/db.go: a pgxpool connection pool, grounded on
// agentoven-agentoven/control-plane/internal/vectorstore/pgvector.go's
// pgxpool.New(ctx, connURL) + pool.Ping(ctx) bootstrap sequence. Every
// generated model defaults to the in-memory gen/memstore implementation
// (see scaffold/memstore.go); the generated app.go wiring does not call
// OpenDB.
func renderDB() string {
	return `package src

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenDB connects to cfg.DatabaseURL and verifies the connection with a
// ping before returning, so a misconfigured DATABASE_URL fails fast at
// startup instead of on the first query.
func OpenDB(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return pool, nil
}
`
}
