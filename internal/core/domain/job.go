package domain

import "time"

// JobStatus is the lifecycle state of an import job.
type JobStatus string

const (
	// JobPending means the job is recorded but not yet run.
	JobPending JobStatus = "pending"

	// JobRunning means the job is currently executing.
	JobRunning JobStatus = "running"

	// JobCompleted means every item imported successfully.
	JobCompleted JobStatus = "completed"

	// JobPartial means the job finished with some failed items.
	// The failed items can be retried with resume.
	JobPartial JobStatus = "partial"

	// JobFailed means the job aborted before finishing.
	JobFailed JobStatus = "failed"

	// JobStale means a local source changed on disk after the job ran.
	JobStale JobStatus = "stale"
)

// ItemState is the lifecycle state of a single reference within a job.
type ItemState string

const (
	// ItemPending means the item has not been processed yet.
	ItemPending ItemState = "pending"

	// ItemImported means the item's pages were written to the
	// destination.
	ItemImported ItemState = "imported"

	// ItemFailed means fetch, mapping, or import failed for the item.
	ItemFailed ItemState = "failed"

	// ItemStale means the item's local source changed after import.
	ItemStale ItemState = "stale"
)

// ImportItem tracks one reference within an import job.
type ImportItem struct {
	// Reference is the verbatim input reference.
	Reference string

	// DisplayName is the resolved notebook name.
	DisplayName string

	// State is the item lifecycle state.
	State ItemState

	// Error holds the failure message when State is ItemFailed.
	Error string

	// PageCount is the number of destination pages written for the item.
	PageCount int
}

// ImportJob is the persistent record of a selective import run.
// Jobs survive process restarts so interrupted or partially failed
// imports can be resumed.
type ImportJob struct {
	// ID is the unique job identifier.
	ID string

	// Status is the job lifecycle state.
	Status JobStatus

	// Items tracks each input reference, in input order.
	Items []ImportItem

	// CreatedAt is when the job was created.
	CreatedAt time.Time

	// UpdatedAt is when the job state last changed.
	UpdatedAt time.Time
}

// PendingReferences returns the references that still need processing:
// anything not yet imported, plus stale items.
func (j *ImportJob) PendingReferences() []string {
	var refs []string
	for _, item := range j.Items {
		if item.State != ItemImported {
			refs = append(refs, item.Reference)
		}
	}
	return refs
}

// PageLink records the destination page created for a source node, so a
// re-import updates the existing page instead of duplicating it.
type PageLink struct {
	// SourceID is the source node id.
	SourceID string

	// DestinationID is the id of the page created in the destination.
	DestinationID string

	// JobID is the job that created or last updated the link.
	JobID string

	// UpdatedAt is when the link was last written.
	UpdatedAt time.Time
}
