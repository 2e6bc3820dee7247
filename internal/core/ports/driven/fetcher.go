package driven

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// ContentFetcher retrieves raw notebook content for a resolved link.
// Each fetcher handles specific link kinds (local filesystem, OneDrive).
type ContentFetcher interface {
	// Kinds returns the link kinds this fetcher handles.
	Kinds() []domain.LinkKind

	// Validate checks if the fetcher is properly configured.
	// For the local fetcher this is a no-op; for cloud fetchers it
	// verifies credentials are present.
	Validate(ctx context.Context) error

	// Fetch retrieves content for a resolved link. A returned error
	// means the fetch failed; the caller converts it into a failed
	// FetchOutcome rather than aborting sibling fetches.
	Fetch(ctx context.Context, link domain.ResolvedLink) (*domain.FetchOutcome, error)
}

// FetcherRouter selects a ContentFetcher for a link kind.
type FetcherRouter interface {
	// FetcherFor returns the fetcher registered for the kind, or
	// domain.ErrUnsupportedType when none is.
	FetcherFor(kind domain.LinkKind) (ContentFetcher, error)
}
