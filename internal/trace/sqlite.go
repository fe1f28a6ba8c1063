package trace

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/gomote/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite persists trace events to a SQLite database so runs can be inspected
// after the fact (`gomote report`). Use ":memory:" in tests.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLite opens (or creates) the database at dbPath and ensures the schema.
func NewSQLite(dbPath string, logger *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	r := &SQLite{db: db, logger: logger.With("component", "trace")}
	if err := r.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLite) migrate(ctx context.Context) error {
	r.logger.Debug("sql", "op", "migrate")
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			run_id      TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			band        TEXT NOT NULL,
			priority    INTEGER NOT NULL,
			enqueued_at TEXT NOT NULL,
			executed_at TEXT NOT NULL,
			latency_ns  INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_events_band ON events(run_id, band);
	`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *SQLite) Record(ctx context.Context, ev model.TraceEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (run_id, seq, band, priority, enqueued_at, executed_at, latency_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, ev.Seq, ev.Band, ev.Priority,
		ev.EnqueuedAt.Format(time.RFC3339Nano),
		ev.ExecutedAt.Format(time.RFC3339Nano),
		int64(ev.Latency),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *SQLite) Close() error {
	return r.db.Close()
}

// Runs lists the run ids present in the database, newest insertion first.
func (r *SQLite) Runs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id FROM events GROUP BY run_id ORDER BY MAX(rowid) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

// Summarize aggregates one run's events per band. An empty runID aggregates
// everything in the database.
func (r *SQLite) Summarize(ctx context.Context, runID string) ([]BandStats, error) {
	r.logger.Debug("sql", "op", "summarize", "run_id", runID)

	query := `SELECT band, COUNT(*), AVG(latency_ns), MAX(latency_ns)
	          FROM events`
	args := []any{}
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` GROUP BY band ORDER BY MIN(priority)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	defer rows.Close()

	var out []BandStats
	for rows.Next() {
		var bs BandStats
		var avg float64
		var max int64
		if err := rows.Scan(&bs.Band, &bs.Count, &avg, &max); err != nil {
			return nil, err
		}
		bs.AvgLatency = time.Duration(int64(avg))
		bs.MaxLatency = time.Duration(max)
		out = append(out, bs)
	}
	return out, rows.Err()
}
