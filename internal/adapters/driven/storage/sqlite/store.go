package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/offerta-labs/citemark/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
)

// Store is a SQLite-backed report store. Each highlight run is saved as
// one row in runs plus its per-citation outcomes; match state itself is
// never persisted.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.ReportStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.citemark/data/reports.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".citemark", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reports.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRun records a completed highlight run and its citation outcomes
// in a single transaction.
func (s *Store) SaveRun(ctx context.Context, run domain.RunReport) error {
	if run.ID == "" || run.FileID == "" {
		return domain.ErrInvalidInput
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, file_id, file_name, mode, started_at, duration_ms, degraded)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_id = excluded.file_id,
			file_name = excluded.file_name,
			mode = excluded.mode,
			started_at = excluded.started_at,
			duration_ms = excluded.duration_ms,
			degraded = excluded.degraded
	`, run.ID, run.FileID, run.FileName, string(run.Mode),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(), boolToInt(run.Degraded))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	// Re-saving a run replaces its outcomes wholesale.
	if _, err := tx.ExecContext(ctx, "DELETE FROM citation_outcomes WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing outcomes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO citation_outcomes (run_id, position, citation_id, text, found, strategy, groups_n, suggestion)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, o := range run.Outcomes {
		if _, err := stmt.ExecContext(ctx, run.ID, i, o.CitationID, o.Text,
			boolToInt(o.Found), string(o.Strategy), o.Groups, o.Suggestion); err != nil {
			return fmt.Errorf("saving outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRuns returns runs for a file, newest first, with outcomes attached.
func (s *Store) ListRuns(ctx context.Context, fileID string) ([]domain.RunReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_id, file_name, mode, started_at, duration_ms, degraded
		FROM runs WHERE file_id = ?
		ORDER BY started_at DESC
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		outcomes, err := s.listOutcomes(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Outcomes = outcomes
	}

	return runs, nil
}

// GetRun retrieves a single run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (domain.RunReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, file_id, file_name, mode, started_at, duration_ms, degraded
		FROM runs WHERE id = ?
	`, id)

	var run domain.RunReport
	var mode, startedAt string
	var durationMS int64
	var degraded int
	if err := row.Scan(&run.ID, &run.FileID, &run.FileName, &mode,
		&startedAt, &durationMS, &degraded); err != nil {
		if err == sql.ErrNoRows {
			return domain.RunReport{}, domain.ErrNotFound
		}
		return domain.RunReport{}, fmt.Errorf("scanning run: %w", err)
	}

	run.Mode = domain.NavMode(mode)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Degraded = degraded != 0
	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = t
	}

	outcomes, err := s.listOutcomes(ctx, run.ID)
	if err != nil {
		return domain.RunReport{}, err
	}
	run.Outcomes = outcomes

	return run, nil
}

// DeleteRuns removes all runs for a file.
func (s *Store) DeleteRuns(ctx context.Context, fileID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("deleting runs: %w", err)
	}
	return nil
}

// listOutcomes loads the ordered outcomes of one run.
func (s *Store) listOutcomes(ctx context.Context, runID string) ([]domain.CitationOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT citation_id, text, found, strategy, groups_n, suggestion
		FROM citation_outcomes WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.CitationOutcome //nolint:prealloc // size unknown from query
	for rows.Next() {
		var o domain.CitationOutcome
		var found int
		var strategy string
		if err := rows.Scan(&o.CitationID, &o.Text, &found, &strategy, &o.Groups, &o.Suggestion); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Found = found != 0
		o.Strategy = domain.MatchStrategy(strategy)
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcomes: %w", err)
	}

	return outcomes, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// scanRun scans a run from *sql.Rows without its outcomes.
func scanRun(rows *sql.Rows) (*domain.RunReport, error) {
	var run domain.RunReport
	var mode, startedAt string
	var durationMS int64
	var degraded int
	if err := rows.Scan(&run.ID, &run.FileID, &run.FileName, &mode,
		&startedAt, &durationMS, &degraded); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Mode = domain.NavMode(mode)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Degraded = degraded != 0
	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = t
	}

	return &run, nil
}

// boolToInt converts a bool to the 0/1 integer SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
