package driven

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// ImportJobStore persists import jobs and their per-item state.
type ImportJobStore interface {
	// SaveJob stores or updates a job, items included.
	SaveJob(ctx context.Context, job *domain.ImportJob) error

	// GetJob retrieves a job by id.
	GetJob(ctx context.Context, id string) (*domain.ImportJob, error)

	// ListJobs returns all jobs, newest first.
	ListJobs(ctx context.Context) ([]domain.ImportJob, error)

	// DeleteJob removes a job and its items.
	DeleteJob(ctx context.Context, id string) error

	// MarkStale flags jobs containing the given local source path as
	// stale. Returns the ids of the jobs affected.
	MarkStale(ctx context.Context, sourcePath string) ([]string, error)
}

// PageLinkStore persists the source-to-destination page mapping so
// re-imports update existing pages instead of duplicating them.
type PageLinkStore interface {
	// SaveLink stores or updates a page link.
	SaveLink(ctx context.Context, link domain.PageLink) error

	// GetLink retrieves the link for a source node id.
	// Returns domain.ErrNotFound when no link exists.
	GetLink(ctx context.Context, sourceID string) (*domain.PageLink, error)

	// DeleteLinksForJob removes all links written by a job.
	DeleteLinksForJob(ctx context.Context, jobID string) error
}
