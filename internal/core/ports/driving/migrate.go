package driving

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// PreviewResult is the outcome of a dry-run migration: everything an
// import would write, without touching the destination.
type PreviewResult struct {
	// Batch is the fetch outcome per reference.
	Batch domain.BatchResult

	// Mapping is the mapped forest across all fetched notebooks.
	Mapping domain.MappingResult
}

// ImportOptions tunes an import run.
type ImportOptions struct {
	// Batch tunes the fetch phase.
	Batch BatchOptions

	// Map tunes the mapping phase.
	Map MapOptions
}

// MigrationStatus is a point-in-time snapshot of a running import.
type MigrationStatus struct {
	// JobID identifies the job.
	JobID string

	// Running indicates if the import is currently in progress.
	Running bool

	// ItemsProcessed is the count of references processed so far.
	ItemsProcessed int

	// PagesImported is the count of destination pages written so far.
	PagesImported int

	// ErrorCount is the number of errors encountered.
	ErrorCount int
}

// MigrationService coordinates the migration pipeline: resolve links,
// fetch content, parse notebooks, map the hierarchy, and write the
// destination tree.
type MigrationService interface {
	// Preview runs the pipeline up to mapping and returns what an
	// import would write. Nothing is persisted.
	Preview(ctx context.Context, refs []string, opts ImportOptions) (*PreviewResult, error)

	// Import runs the full pipeline and records a resumable job.
	// Per-item failures are recorded on the job; Import only returns an
	// error when the run as a whole cannot proceed.
	Import(ctx context.Context, refs []string, opts ImportOptions) (*domain.ImportJob, error)

	// Resume re-runs a stored job, skipping items already imported.
	Resume(ctx context.Context, jobID string, opts ImportOptions) (*domain.ImportJob, error)

	// Status returns the live status for a job.
	Status(ctx context.Context, jobID string) (*MigrationStatus, error)
}
