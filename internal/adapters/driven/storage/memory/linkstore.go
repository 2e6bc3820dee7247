package memory

import (
	"context"
	"sync"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Ensure PageLinkStore implements the interface.
var _ driven.PageLinkStore = (*PageLinkStore)(nil)

// PageLinkStore is an in-memory implementation of driven.PageLinkStore.
type PageLinkStore struct {
	mu    sync.RWMutex
	links map[string]domain.PageLink
}

// NewPageLinkStore creates a new in-memory page link store.
func NewPageLinkStore() *PageLinkStore {
	return &PageLinkStore{links: make(map[string]domain.PageLink)}
}

// SaveLink stores or updates a page link.
func (s *PageLinkStore) SaveLink(_ context.Context, link domain.PageLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.SourceID] = link
	return nil
}

// GetLink retrieves the link for a source node id.
func (s *PageLinkStore) GetLink(_ context.Context, sourceID string) (*domain.PageLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[sourceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &link, nil
}

// DeleteLinksForJob removes all links written by a job.
func (s *PageLinkStore) DeleteLinksForJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, link := range s.links {
		if link.JobID == jobID {
			delete(s.links, id)
		}
	}
	return nil
}
