package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"transmute/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id        TEXT PRIMARY KEY,
    source_format TEXT NOT NULL,
    target_format TEXT NOT NULL,
    stage_count   INTEGER NOT NULL,
    status        TEXT NOT NULL,
    exit_code     INTEGER NOT NULL DEFAULT 0,
    error_message TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL,
    duration_ms   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_stages (
    run_id        TEXT NOT NULL,
    stage_index   INTEGER NOT NULL,
    stage         TEXT NOT NULL,
    source_format TEXT NOT NULL,
    target_format TEXT NOT NULL,
    status        TEXT NOT NULL,
    exit_code     INTEGER NOT NULL DEFAULT 0,
    stderr        TEXT NOT NULL DEFAULT '',
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, stage_index)
);
`

// Store persists the run ledger in SQLite. A file lock beside the database
// serializes writers across processes and is held only for the duration of
// each statement; readers take the shared side of the lock so a long
// conversion never blocks `transmute history`.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the ledger database in the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "history.db")
	lock := flock.New(dbPath + ".lock")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: dbPath, lock: lock}
	if err := s.withWriteLock(func() error {
		if _, execErr := db.Exec(schema); execErr != nil {
			return fmt.Errorf("apply schema: %w", execErr)
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) withWriteLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire history write lock: %w", err)
	}
	defer s.lock.Unlock()
	return fn()
}

func (s *Store) withReadLock(fn func() error) error {
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("acquire history read lock: %w", err)
	}
	defer s.lock.Unlock()
	return fn()
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// InsertRun records a run that has just started.
func (s *Store) InsertRun(ctx context.Context, run Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return s.withWriteLock(func() error {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO runs (run_id, source_format, target_format, stage_count, status, created_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Source,
			run.Target,
			run.StageCount,
			StatusRunning,
			createdAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

// FinishRun stores a run's terminal status.
func (s *Store) FinishRun(ctx context.Context, runID, status string, exitCode int, errorMessage string, duration time.Duration) error {
	return s.withWriteLock(func() error {
		_, err := s.db.ExecContext(
			ctx,
			`UPDATE runs SET status = ?, exit_code = ?, error_message = ?, duration_ms = ? WHERE run_id = ?`,
			status,
			exitCode,
			errorMessage,
			duration.Milliseconds(),
			runID,
		)
		if err != nil {
			return fmt.Errorf("finish run: %w", err)
		}
		return nil
	})
}

// InsertStage records the outcome of one stage invocation within a run.
func (s *Store) InsertStage(ctx context.Context, runID string, entry StageEntry) error {
	return s.withWriteLock(func() error {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO run_stages (run_id, stage_index, stage, source_format, target_format, status, exit_code, stderr, duration_ms)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			entry.Index,
			entry.Name,
			entry.Source,
			entry.Target,
			entry.Status,
			entry.ExitCode,
			entry.Stderr,
			entry.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert stage: %w", err)
		}
		return nil
	})
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []Run
	err := s.withReadLock(func() error {
		rows, err := s.db.QueryContext(
			ctx,
			`SELECT run_id, source_format, target_format, stage_count, status, exit_code, error_message, created_at, duration_ms
             FROM runs ORDER BY created_at DESC LIMIT ?`,
			limit,
		)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var run Run
			var createdAt string
			var durationMS int64
			if err := rows.Scan(&run.ID, &run.Source, &run.Target, &run.StageCount, &run.Status, &run.ExitCode, &run.ErrorMessage, &createdAt, &durationMS); err != nil {
				return fmt.Errorf("scan run: %w", err)
			}
			if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
				run.CreatedAt = parsed
			}
			run.Duration = time.Duration(durationMS) * time.Millisecond
			runs = append(runs, run)
		}
		return rows.Err()
	})
	return runs, err
}

// StagesForRun returns a run's stage records in execution order.
func (s *Store) StagesForRun(ctx context.Context, runID string) ([]StageEntry, error) {
	var entries []StageEntry
	err := s.withReadLock(func() error {
		rows, err := s.db.QueryContext(
			ctx,
			`SELECT stage_index, stage, source_format, target_format, status, exit_code, stderr, duration_ms
             FROM run_stages WHERE run_id = ? ORDER BY stage_index`,
			runID,
		)
		if err != nil {
			return fmt.Errorf("list stages: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var entry StageEntry
			var durationMS int64
			if err := rows.Scan(&entry.Index, &entry.Name, &entry.Source, &entry.Target, &entry.Status, &entry.ExitCode, &entry.Stderr, &durationMS); err != nil {
				return fmt.Errorf("scan stage: %w", err)
			}
			entry.Duration = time.Duration(durationMS) * time.Millisecond
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	return entries, err
}
