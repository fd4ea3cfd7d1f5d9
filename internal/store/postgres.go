// Package store persists the summary of finished simulation runs, so a
// sweep across policies or memory capacities can be compared later
// without re-running the trace. It is entirely optional: a Scheduler
// never touches this package, and a run with no store configured
// behaves identically.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRecord is one finished simulation run, as reported by a driver
// program after it has exhausted a trace against a Scheduler.
type RunRecord struct {
	RunID          string
	Label          string
	Policy         string
	MemCapacity    int
	Hits           int64
	Misses         int64
	CapacityMisses int64
	Evictions      int64
	FinishedAt     time.Time
}

// PostgresStore persists RunRecords to a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, verifies connectivity, and ensures
// the run_records table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool}

	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ping verifies connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("postgres not initialized")
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS run_records (
		run_id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		policy TEXT NOT NULL,
		mem_capacity INTEGER NOT NULL,
		hits BIGINT NOT NULL,
		misses BIGINT NOT NULL,
		capacity_misses BIGINT NOT NULL,
		evictions BIGINT NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// SaveRun upserts a finished run's summary.
func (s *PostgresStore) SaveRun(ctx context.Context, r RunRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO run_records (run_id, label, policy, mem_capacity, hits, misses, capacity_misses, evictions, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id) DO UPDATE SET
			label = EXCLUDED.label,
			policy = EXCLUDED.policy,
			mem_capacity = EXCLUDED.mem_capacity,
			hits = EXCLUDED.hits,
			misses = EXCLUDED.misses,
			capacity_misses = EXCLUDED.capacity_misses,
			evictions = EXCLUDED.evictions,
			finished_at = EXCLUDED.finished_at`,
		r.RunID, r.Label, r.Policy, r.MemCapacity, r.Hits, r.Misses, r.CapacityMisses, r.Evictions, r.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("store: save run %s: %w", r.RunID, err)
	}
	return nil
}

// ListRuns returns every stored run, most recently finished first.
func (s *PostgresStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, label, policy, mem_capacity, hits, misses, capacity_misses, evictions, finished_at
		FROM run_records ORDER BY finished_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Label, &r.Policy, &r.MemCapacity, &r.Hits, &r.Misses, &r.CapacityMisses, &r.Evictions, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}
