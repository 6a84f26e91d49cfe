package db

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB wraps the run-history database connection
type DB struct {
	*sql.DB
}

// Init initializes the database connection and creates tables
func Init(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for low memory usage
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{sqlDB}

	if err := db.createSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// createSchema creates all necessary tables and indexes
func (db *DB) createSchema() error {
	schema := `
	-- Enable WAL mode for concurrent reads
	PRAGMA journal_mode=WAL;
	PRAGMA busy_timeout=5000;

	-- One row per collector per refresh cycle
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		collector TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		item_count INTEGER NOT NULL DEFAULT 0,
		success_count INTEGER NOT NULL DEFAULT 0,
		failure_count INTEGER NOT NULL DEFAULT 0,
		follower_count INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_collector_started ON runs(collector, started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`

	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// InsertRun records one finished collection run.
func (db *DB) InsertRun(run *Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (id, collector, started_at, finished_at, item_count, success_count, failure_count, follower_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Collector, run.StartedAt, run.FinishedAt, run.ItemCount, run.SuccessCount, run.FailureCount, run.FollowerCount, nullString(run.Error))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListRecentRuns returns the most recent runs, newest first.
func (db *DB) ListRecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, collector, started_at, finished_at, item_count, success_count, failure_count, follower_count, error
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var finishedAt sql.NullTime
		var errText sql.NullString

		err := rows.Scan(
			&run.ID,
			&run.Collector,
			&run.StartedAt,
			&finishedAt,
			&run.ItemCount,
			&run.SuccessCount,
			&run.FailureCount,
			&run.FollowerCount,
			&errText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		if errText.Valid {
			run.Error = errText.String
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Stats aggregates run history for the metrics endpoint.
func (db *DB) Stats() (*RunStats, error) {
	var stats RunStats
	var lastRun sql.NullTime

	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(item_count), 0),
		       COALESCE(SUM(failure_count), 0),
		       COUNT(CASE WHEN error IS NOT NULL THEN 1 END),
		       MAX(started_at)
		FROM runs
	`).Scan(&stats.TotalRuns, &stats.TotalItems, &stats.TotalFailures, &stats.RunsWithErrors, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate run stats: %w", err)
	}

	if lastRun.Valid {
		stats.LastRunAt = &lastRun.Time
	}
	return &stats, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
