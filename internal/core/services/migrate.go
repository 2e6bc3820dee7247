package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/links"
	"github.com/notelift/notelift-cli/internal/logger"
)

// Ensure MigrationService implements the interface.
var _ driving.MigrationService = (*MigrationService)(nil)

// MigrationService coordinates the migration pipeline: resolve links,
// fetch content under bounded concurrency, parse notebooks, map the
// hierarchy, and write the destination tree. Import runs are recorded
// as resumable jobs.
type MigrationService struct {
	batch     driving.BatchProcessor
	mapper    driving.HierarchyMapper
	parsers   driven.ParserRegistry
	importer  driven.PageImporter
	jobStore  driven.ImportJobStore
	linkStore driven.PageLinkStore

	// Status tracking
	mu     sync.RWMutex
	active map[string]*driving.MigrationStatus
}

// NewMigrationService creates a migration service. The importer is
// optional: without it Preview works but Import returns
// domain.ErrImporterUnavailable.
func NewMigrationService(
	batch driving.BatchProcessor,
	mapper driving.HierarchyMapper,
	parsers driven.ParserRegistry,
	importer driven.PageImporter,
	jobStore driven.ImportJobStore,
	linkStore driven.PageLinkStore,
) *MigrationService {
	return &MigrationService{
		batch:     batch,
		mapper:    mapper,
		parsers:   parsers,
		importer:  importer,
		jobStore:  jobStore,
		linkStore: linkStore,
		active:    make(map[string]*driving.MigrationStatus),
	}
}

// Preview runs the pipeline up to mapping. Nothing is persisted and the
// destination is never touched.
func (s *MigrationService) Preview(
	ctx context.Context,
	refs []string,
	opts driving.ImportOptions,
) (*driving.PreviewResult, error) {
	batchResult := s.batch.ProcessBatch(ctx, refs, opts.Batch)

	var (
		notebooks   []domain.SourceNode
		parseErrors []string
	)
	for i := range batchResult.Outcomes {
		outcome := &batchResult.Outcomes[i]
		if !outcome.Succeeded {
			continue
		}
		nodes, err := s.parsers.Parse(ctx, outcome)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("parse %s: %v", outcome.DisplayName, err))
			continue
		}
		notebooks = append(notebooks, nodes...)
	}

	mapping := s.mapper.MapHierarchy(ctx, notebooks, opts.Map)
	mapping.Errors = append(mapping.Errors, parseErrors...)

	return &driving.PreviewResult{Batch: batchResult, Mapping: mapping}, nil
}

// Import runs the full pipeline and records a resumable job. Per-item
// failures are recorded on the job, not returned as errors.
func (s *MigrationService) Import(
	ctx context.Context,
	refs []string,
	opts driving.ImportOptions,
) (*domain.ImportJob, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("import: %w", domain.ErrInvalidInput)
	}
	if s.importer == nil {
		return nil, domain.ErrImporterUnavailable
	}

	job := &domain.ImportJob{
		ID:        uuid.NewString(),
		Status:    domain.JobRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, ref := range refs {
		job.Items = append(job.Items, domain.ImportItem{
			Reference:   ref,
			DisplayName: links.Resolve(ref).DisplayLabel(),
			State:       domain.ItemPending,
		})
	}
	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	return s.run(ctx, job, refs, opts)
}

// Resume re-runs a stored job, skipping items already imported.
func (s *MigrationService) Resume(
	ctx context.Context,
	jobID string,
	opts driving.ImportOptions,
) (*domain.ImportJob, error) {
	if s.importer == nil {
		return nil, domain.ErrImporterUnavailable
	}

	s.mu.RLock()
	_, running := s.active[jobID]
	s.mu.RUnlock()
	if running {
		return nil, domain.ErrImportInProgress
	}

	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	pending := job.PendingReferences()
	if len(pending) == 0 {
		logger.Info("Job %s has no pending items", jobID)
		return job, nil
	}

	job.Status = domain.JobRunning
	job.UpdatedAt = time.Now()
	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	return s.run(ctx, job, pending, opts)
}

// Status returns the live status for a job. Idle jobs report their
// stored state.
func (s *MigrationService) Status(ctx context.Context, jobID string) (*driving.MigrationStatus, error) {
	s.mu.RLock()
	if status, ok := s.active[jobID]; ok {
		// Return a copy to avoid race conditions
		copied := *status
		s.mu.RUnlock()
		return &copied, nil
	}
	s.mu.RUnlock()

	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	status := &driving.MigrationStatus{JobID: jobID}
	for _, item := range job.Items {
		if item.State != domain.ItemPending {
			status.ItemsProcessed++
		}
		if item.State == domain.ItemFailed {
			status.ErrorCount++
		}
		status.PagesImported += item.PageCount
	}
	return status, nil
}

// run processes the given references for a job: fetch, parse, map,
// import, with per-item state recorded on the job as it goes.
func (s *MigrationService) run(
	ctx context.Context,
	job *domain.ImportJob,
	refs []string,
	opts driving.ImportOptions,
) (*domain.ImportJob, error) {
	status := &driving.MigrationStatus{JobID: job.ID, Running: true}
	s.setStatus(job.ID, status)
	defer s.clearStatus(job.ID)

	logger.Info("Starting import job %s (%d references)", job.ID, len(refs))

	batchResult := s.batch.ProcessBatchWithProgress(ctx, refs, opts.Batch,
		func(completed, total int, _ domain.FetchOutcome) {
			logger.Debug("Fetched %d/%d", completed, total)
		})

	for i, ref := range refs {
		outcome := &batchResult.Outcomes[i]

		if !outcome.Succeeded {
			s.recordItem(job, ref, domain.ItemFailed, outcome.FailureReason, 0)
			s.bumpStatus(status, 0, true)
			s.checkpoint(ctx, job)
			continue
		}

		pageCount, err := s.importOutcome(ctx, job.ID, outcome, opts.Map)
		if err != nil {
			logger.Debug("Import failed for %s: %v", outcome.DisplayName, err)
			s.recordItem(job, ref, domain.ItemFailed, err.Error(), 0)
			s.bumpStatus(status, 0, true)
			s.checkpoint(ctx, job)
			continue
		}

		s.recordItem(job, ref, domain.ItemImported, "", pageCount)
		s.bumpStatus(status, pageCount, false)
		s.checkpoint(ctx, job)
	}

	job.Status = domain.JobCompleted
	for _, item := range job.Items {
		if item.State != domain.ItemImported {
			job.Status = domain.JobPartial
			break
		}
	}
	job.UpdatedAt = time.Now()

	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		return job, fmt.Errorf("save job: %w", err)
	}

	s.mu.Lock()
	status.Running = false
	processed, errCount := status.ItemsProcessed, status.ErrorCount
	s.mu.Unlock()

	logger.Info("Import job %s finished: %d items, %d errors",
		job.ID, processed, errCount)
	return job, nil
}

// importOutcome parses one fetched notebook, maps its hierarchy, and
// writes the resulting pages. Returns the number of pages written.
func (s *MigrationService) importOutcome(
	ctx context.Context,
	jobID string,
	outcome *domain.FetchOutcome,
	mapOpts driving.MapOptions,
) (int, error) {
	notebooks, err := s.parsers.Parse(ctx, outcome)
	if err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}

	mapping := s.mapper.MapHierarchy(ctx, notebooks, mapOpts)
	if !mapping.Succeeded {
		return 0, fmt.Errorf("map hierarchy: %s", firstOr(mapping.Errors, "unknown error"))
	}

	count := 0
	for _, root := range mapping.Pages {
		var parentDestID string

		if mapOpts.CreateDatabases && root.Type == domain.PageTypeNotebook {
			// Database-per-notebook mode: the notebook becomes a
			// database container and its children go inside it.
			dbID, dbErr := s.importer.CreateDatabase(ctx, root)
			if dbErr != nil {
				return count, fmt.Errorf("create database: %w", dbErr)
			}
			parentDestID = dbID
		} else {
			destID, pageErr := s.importPage(ctx, jobID, root, "")
			if pageErr != nil {
				return count, pageErr
			}
			count++
			parentDestID = destID
		}

		n, childErr := s.importChildren(ctx, jobID, root.Children, parentDestID)
		count += n
		if childErr != nil {
			return count, childErr
		}
	}
	return count, nil
}

// importChildren writes a page forest under the given destination
// parent, depth first in source order.
func (s *MigrationService) importChildren(
	ctx context.Context,
	jobID string,
	pages []domain.DestinationPage,
	parentDestID string,
) (int, error) {
	count := 0
	for _, page := range pages {
		destID, err := s.importPage(ctx, jobID, page, parentDestID)
		if err != nil {
			return count, err
		}
		count++

		n, err := s.importChildren(ctx, jobID, page.Children, destID)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

// importPage creates or updates one destination page. An existing page
// link means the source node was imported before, so the destination
// page is updated in place instead of duplicated.
func (s *MigrationService) importPage(
	ctx context.Context,
	jobID string,
	page domain.DestinationPage,
	parentDestID string,
) (string, error) {
	var destID string

	existing, err := s.linkStore.GetLink(ctx, page.ID)
	switch {
	case err == nil:
		destID = existing.DestinationID
		if err := s.importer.UpdatePage(ctx, destID, page); err != nil {
			return "", fmt.Errorf("update page %s: %w", page.ID, err)
		}
	case errors.Is(err, domain.ErrNotFound):
		destID, err = s.importer.CreatePage(ctx, page, parentDestID)
		if err != nil {
			return "", fmt.Errorf("create page %s: %w", page.ID, err)
		}
	default:
		return "", fmt.Errorf("get page link: %w", err)
	}

	link := domain.PageLink{
		SourceID:      page.ID,
		DestinationID: destID,
		JobID:         jobID,
		UpdatedAt:     time.Now(),
	}
	if err := s.linkStore.SaveLink(ctx, link); err != nil {
		return "", fmt.Errorf("save page link: %w", err)
	}
	return destID, nil
}

// recordItem updates the job item for a reference.
func (s *MigrationService) recordItem(job *domain.ImportJob, ref string, state domain.ItemState, errMsg string, pages int) {
	for i := range job.Items {
		if job.Items[i].Reference == ref {
			job.Items[i].State = state
			job.Items[i].Error = errMsg
			job.Items[i].PageCount = pages
			return
		}
	}
}

// bumpStatus advances the live counters for one completed item. Status
// copies the struct under the same lock, so writes must hold it too.
func (s *MigrationService) bumpStatus(status *driving.MigrationStatus, pages int, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status.ItemsProcessed++
	status.PagesImported += pages
	if failed {
		status.ErrorCount++
	}
}

// checkpoint flushes per-item state to the job store after every item,
// so pollers see progress mid-run and a crashed run resumes from the
// last completed item. A failed flush is not fatal: the final SaveJob
// still records the full result.
func (s *MigrationService) checkpoint(ctx context.Context, job *domain.ImportJob) {
	job.UpdatedAt = time.Now()
	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		logger.Warn("Failed to checkpoint job %s: %v", job.ID, err)
	}
}

// setStatus sets the live status for a job.
func (s *MigrationService) setStatus(jobID string, status *driving.MigrationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[jobID] = status
}

// clearStatus removes the live status for a job.
func (s *MigrationService) clearStatus(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, jobID)
}

// firstOr returns the first element or a fallback for empty slices.
func firstOr(msgs []string, fallback string) string {
	if len(msgs) > 0 {
		return msgs[0]
	}
	return fallback
}
