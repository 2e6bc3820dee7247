// Package memory provides in-memory implementations of the persistence
// ports. Used in tests and as a fallback when the SQLite store is not
// available.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Ensure ImportJobStore implements the interface.
var _ driven.ImportJobStore = (*ImportJobStore)(nil)

// ImportJobStore is an in-memory implementation of driven.ImportJobStore.
type ImportJobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.ImportJob
}

// NewImportJobStore creates a new in-memory job store.
func NewImportJobStore() *ImportJobStore {
	return &ImportJobStore{jobs: make(map[string]domain.ImportJob)}
}

// SaveJob stores or updates a job, items included.
func (s *ImportJobStore) SaveJob(_ context.Context, job *domain.ImportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	copied.Items = append([]domain.ImportItem(nil), job.Items...)
	s.jobs[job.ID] = copied
	return nil
}

// GetJob retrieves a job by id.
func (s *ImportJobStore) GetJob(_ context.Context, id string) (*domain.ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := job
	copied.Items = append([]domain.ImportItem(nil), job.Items...)
	return &copied, nil
}

// ListJobs returns all jobs, newest first.
func (s *ImportJobStore) ListJobs(_ context.Context) ([]domain.ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]domain.ImportJob, 0, len(s.jobs))
	for id := range s.jobs {
		jobs = append(jobs, s.jobs[id])
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// DeleteJob removes a job and its items.
func (s *ImportJobStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

// MarkStale flags jobs referencing the given local source path.
func (s *ImportJobStore) MarkStale(_ context.Context, sourcePath string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected []string
	for id, job := range s.jobs {
		touched := false
		for i := range job.Items {
			if job.Items[i].Reference == sourcePath && job.Items[i].State == domain.ItemImported {
				job.Items[i].State = domain.ItemStale
				touched = true
			}
		}
		if touched {
			job.Status = domain.JobStale
			job.UpdatedAt = time.Now()
			s.jobs[id] = job
			affected = append(affected, id)
		}
	}
	return affected, nil
}
