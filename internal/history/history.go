// Package history persists completed balance runs into a local SQLite
// database so past consolidated quota values can be compared over time.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"quotabalance/internal/balance"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	balanced   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_entries (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	display_name TEXT NOT NULL,
	fraction     REAL NOT NULL,
	PRIMARY KEY (run_id, display_name)
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

type Run struct {
	ID        string
	CreatedAt time.Time
	Balanced  balance.BalancedQuotaMap
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if err := configureConnection(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun writes one run atomically and returns its id.
func (s *Store) RecordRun(createdAt time.Time, balanced balance.BalancedQuotaMap) (string, error) {
	runID := uuid.NewString()

	serialized, err := json.Marshal(balanced)
	if err != nil {
		return "", fmt.Errorf("marshal balanced map: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, created_at, balanced) VALUES (?, ?, ?)`,
		runID, createdAt.UTC().Format(time.RFC3339Nano), string(serialized),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for name, fraction := range balanced {
		if _, err := tx.Exec(
			`INSERT INTO run_entries (run_id, display_name, fraction) VALUES (?, ?, ?)`,
			runID, name, fraction,
		); err != nil {
			return "", fmt.Errorf("insert run entry %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit history tx: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, created_at, balanced FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt, serialized string
		if err := rows.Scan(&run.ID, &createdAt, &serialized); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(serialized), &run.Balanced); err != nil {
			return nil, fmt.Errorf("parse balanced map: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FractionSeries returns (timestamp, fraction) points for one display name,
// oldest first.
func (s *Store) FractionSeries(displayName string, limit int) ([]SeriesPoint, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT r.created_at, e.fraction
		FROM run_entries e
		JOIN runs r ON r.id = e.run_id
		WHERE e.display_name = ?
		ORDER BY r.created_at DESC
		LIMIT ?`, displayName, limit)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var createdAt string
		var point SeriesPoint
		if err := rows.Scan(&createdAt, &point.Fraction); err != nil {
			return nil, fmt.Errorf("scan series point: %w", err)
		}
		point.At, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse series timestamp: %w", err)
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	return points, nil
}

type SeriesPoint struct {
	At       time.Time
	Fraction float64
}

func configureConnection(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("set journal_mode WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		return fmt.Errorf("set synchronous NORMAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return fmt.Errorf("set foreign_keys: %w", err)
	}
	return nil
}
