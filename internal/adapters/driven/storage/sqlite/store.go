// Package sqlite provides the persistent store for import jobs and page
// links, backed by a pure-Go SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/notelift/notelift-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// job and page link store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.notelift/data/notelift.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".notelift", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "notelift.db")

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

// JobStore returns an ImportJobStore interface backed by this store.
func (s *Store) JobStore() driven.ImportJobStore {
	return &jobStore{store: s}
}

// LinkStore returns a PageLinkStore interface backed by this store.
func (s *Store) LinkStore() driven.PageLinkStore {
	return &linkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

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

// ==================== Job Store ====================

// jobStore implements driven.ImportJobStore.
type jobStore struct {
	store *Store
}

var _ driven.ImportJobStore = (*jobStore)(nil)

// SaveJob stores or updates a job, items included. Items are rewritten
// wholesale: the item list is small and positional.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.ImportJob) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_jobs (id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`, job.ID, string(job.Status), job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM import_items WHERE job_id = ?", job.ID); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}

	for i, item := range job.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO import_items (job_id, position, reference, display_name, state, error, page_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, job.ID, i, item.Reference, item.DisplayName, string(item.State), item.Error, item.PageCount)
		if err != nil {
			return fmt.Errorf("saving item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// GetJob retrieves a job by id.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.ImportJob, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, status, created_at, updated_at FROM import_jobs WHERE id = ?
	`, id)

	var job domain.ImportJob
	var status string
	if err := row.Scan(&job.ID, &status, &job.CreatedAt, &job.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	job.Status = domain.JobStatus(status)

	items, err := s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Items = items

	return &job, nil
}

// ListJobs returns all jobs, newest first.
func (s *jobStore) ListJobs(ctx context.Context) ([]domain.ImportJob, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, status, created_at, updated_at FROM import_jobs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.ImportJob
	for rows.Next() {
		var job domain.ImportJob
		var status string
		if err := rows.Scan(&job.ID, &status, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		job.Status = domain.JobStatus(status)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	for i := range jobs {
		items, err := s.loadItems(ctx, jobs[i].ID)
		if err != nil {
			return nil, err
		}
		jobs[i].Items = items
	}
	return jobs, nil
}

// DeleteJob removes a job; items cascade.
func (s *jobStore) DeleteJob(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM import_jobs WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}

// MarkStale flags imported items matching the source path and their jobs.
func (s *jobStore) MarkStale(ctx context.Context, sourcePath string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT DISTINCT job_id FROM import_items
		WHERE reference = ? AND state = ?
	`, sourcePath, string(domain.ItemImported))
	if err != nil {
		return nil, fmt.Errorf("querying stale jobs: %w", err)
	}
	defer rows.Close()

	var jobIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning job id: %w", err)
		}
		jobIDs = append(jobIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job ids: %w", err)
	}
	if len(jobIDs) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	_, err = s.store.db.ExecContext(ctx, `
		UPDATE import_items SET state = ?
		WHERE reference = ? AND state = ?
	`, string(domain.ItemStale), sourcePath, string(domain.ItemImported))
	if err != nil {
		return nil, fmt.Errorf("updating items: %w", err)
	}

	for _, id := range jobIDs {
		_, err = s.store.db.ExecContext(ctx, `
			UPDATE import_jobs SET status = ?, updated_at = ? WHERE id = ?
		`, string(domain.JobStale), now, id)
		if err != nil {
			return nil, fmt.Errorf("updating job %s: %w", id, err)
		}
	}
	return jobIDs, nil
}

// loadItems reads the items for a job in positional order.
func (s *jobStore) loadItems(ctx context.Context, jobID string) ([]domain.ImportItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT reference, display_name, state, error, page_count
		FROM import_items WHERE job_id = ? ORDER BY position
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.ImportItem
	for rows.Next() {
		var item domain.ImportItem
		var state string
		if err := rows.Scan(&item.Reference, &item.DisplayName, &state, &item.Error, &item.PageCount); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.State = domain.ItemState(state)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// ==================== Page Link Store ====================

// linkStore implements driven.PageLinkStore.
type linkStore struct {
	store *Store
}

var _ driven.PageLinkStore = (*linkStore)(nil)

// SaveLink stores or updates a page link.
func (s *linkStore) SaveLink(ctx context.Context, link domain.PageLink) error {
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO page_links (source_id, destination_id, job_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			destination_id = excluded.destination_id,
			job_id = excluded.job_id,
			updated_at = excluded.updated_at
	`, link.SourceID, link.DestinationID, link.JobID, link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving page link: %w", err)
	}
	return nil
}

// GetLink retrieves the link for a source node id.
func (s *linkStore) GetLink(ctx context.Context, sourceID string) (*domain.PageLink, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT source_id, destination_id, job_id, updated_at
		FROM page_links WHERE source_id = ?
	`, sourceID)

	var link domain.PageLink
	if err := row.Scan(&link.SourceID, &link.DestinationID, &link.JobID, &link.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning page link: %w", err)
	}
	return &link, nil
}

// DeleteLinksForJob removes all links written by a job.
func (s *linkStore) DeleteLinksForJob(ctx context.Context, jobID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM page_links WHERE job_id = ?", jobID); err != nil {
		return fmt.Errorf("deleting page links: %w", err)
	}
	return nil
}
