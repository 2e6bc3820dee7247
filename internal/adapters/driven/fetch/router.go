package fetch

import (
	"fmt"
	"sync"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.FetcherRouter = (*Router)(nil)

// Router maps link kinds to registered fetchers.
type Router struct {
	mu       sync.RWMutex
	fetchers map[domain.LinkKind]driven.ContentFetcher
}

// NewRouter creates an empty fetcher router.
func NewRouter() *Router {
	return &Router{fetchers: make(map[domain.LinkKind]driven.ContentFetcher)}
}

// Register adds a fetcher for every kind it declares. A later
// registration for the same kind replaces the earlier one.
func (r *Router) Register(fetcher driven.ContentFetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kind := range fetcher.Kinds() {
		r.fetchers[kind] = fetcher
	}
}

// FetcherFor returns the fetcher registered for the kind.
func (r *Router) FetcherFor(kind domain.LinkKind) (driven.ContentFetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fetcher, ok := r.fetchers[kind]
	if !ok {
		return nil, fmt.Errorf("no fetcher for %s links: %w", kind, domain.ErrUnsupportedType)
	}
	return fetcher, nil
}
