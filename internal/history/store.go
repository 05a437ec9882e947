package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"weeder/internal/faults"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Store is the SQLite-backed run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the ledger at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrHistory, "history", "open", "create state directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrHistory, "history", "open", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, faults.Wrap(faults.ErrHistory, "history", "open", fmt.Sprintf("apply %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, faults.Wrap(faults.ErrHistory, "history", "migrate", path, err)
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// timestampLayout is fixed width so stored timestamps sort chronologically as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// Begin records a running run. An empty Params.ID is replaced with a new id.
func (s *Store) Begin(ctx context.Context, p Params) (*Run, error) {
	if p.ID == "" {
		p.ID = NewRunID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, status, input_dir, output_dir, sample, min_count, seed, workers, log_path, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		StatusRunning,
		p.InputDir,
		p.OutputDir,
		p.Sample,
		p.MinCount,
		formatSeed(p.Seed),
		p.Workers,
		nullableString(p.LogPath),
		now(),
	)
	if err != nil {
		return nil, faults.Wrap(faults.ErrHistory, "history", "begin", p.ID, err)
	}
	return s.Get(ctx, p.ID)
}

// Complete marks a run completed with its final seed and totals.
func (s *Store) Complete(ctx context.Context, id string, seed uint64, totals Totals) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET
            status = ?, seed = ?, documents = ?, tokens = ?, vocabulary = ?, kept = ?,
            dropped_rare = ?, dropped_sampled = ?, dropped_unknown = ?, finished_at = ?
        WHERE id = ?`,
		StatusCompleted,
		formatSeed(seed),
		totals.Documents,
		totals.Tokens,
		totals.Vocabulary,
		totals.Kept,
		totals.DroppedRare,
		totals.DroppedSampled,
		totals.DroppedUnknown,
		now(),
		id,
	)
	if err != nil {
		return faults.Wrap(faults.ErrHistory, "history", "complete", id, err)
	}
	return requireRow(res, id)
}

// Fail marks a run failed, recording the error classification and message.
func (s *Store) Fail(ctx context.Context, id string, runErr error) error {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_kind = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		StatusFailed,
		nullableString(faults.Kind(runErr)),
		nullableString(message),
		now(),
		id,
	)
	if err != nil {
		return faults.Wrap(faults.ErrHistory, "history", "fail", id, err)
	}
	return requireRow(res, id)
}

// Get fetches one run.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrHistory, "history", "get", id, err)
	}
	return run, nil
}

// List returns the most recent runs first. limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, faults.Wrap(faults.ErrHistory, "history", "list", "", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, faults.Wrap(faults.ErrHistory, "history", "list", "scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrHistory, "history", "list", "", err)
	}
	return runs, nil
}

// Prune deletes finished runs that started before now minus olderThan and
// returns how many were removed. Running rows are never pruned.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timestampLayout)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM runs WHERE status != ? AND started_at < ?",
		StatusRunning,
		cutoff,
	)
	if err != nil {
		return 0, faults.Wrap(faults.ErrHistory, "history", "prune", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, faults.Wrap(faults.ErrHistory, "history", "prune", "rows affected", err)
	}
	return n, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return faults.Wrap(faults.ErrHistory, "history", "update", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func formatSeed(seed uint64) any {
	if seed == 0 {
		return nil
	}
	return strconv.FormatUint(seed, 10)
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
