// Package history records successful runs in PostgreSQL. Recording is
// optional: the tool works without a database and a failed write never
// changes the outcome of a run.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Execer is the subset of *pgxpool.Pool the recorder needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Entry describes one run that produced output files.
type Entry struct {
	RunID        uuid.UUID
	Period       string
	CSVPath      string
	LogPath      string
	Regions      int
	AddressTotal int
	CopyTotal    int
	CreatedAt    time.Time
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS labliste_runs (
	run_id        uuid PRIMARY KEY,
	period        text NOT NULL,
	csv_path      text NOT NULL,
	log_path      text NOT NULL,
	regions       integer NOT NULL,
	address_total integer NOT NULL,
	copy_total    integer NOT NULL,
	created_at    timestamptz NOT NULL
)`

const insertRunSQL = `INSERT INTO labliste_runs
	(run_id, period, csv_path, log_path, regions, address_total, copy_total, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Recorder writes run entries.
type Recorder struct {
	db Execer
}

// NewRecorder creates a recorder on top of db.
func NewRecorder(db Execer) *Recorder {
	return &Recorder{db: db}
}

// EnsureSchema creates the runs table if it does not exist.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create labliste_runs: %w", err)
	}
	return nil
}

// Record inserts e. A zero CreatedAt is replaced by the current time.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if e.RunID == uuid.Nil {
		return fmt.Errorf("record run: missing run id")
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tag, err := r.db.Exec(ctx, insertRunSQL,
		pgtype.UUID{Bytes: e.RunID, Valid: true},
		e.Period,
		e.CSVPath,
		e.LogPath,
		e.Regions,
		e.AddressTotal,
		e.CopyTotal,
		pgtype.Timestamptz{Time: created, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", e.RunID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("record run %s: %d rows affected", e.RunID, tag.RowsAffected())
	}
	return nil
}

// Open connects to url and verifies the connection. The caller closes the
// returned pool.
func Open(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	// One run writes one row.
	poolConfig.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
