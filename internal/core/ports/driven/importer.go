package driven

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// PageImporter writes mapped pages into the destination store.
// The destination HTTP client lives behind this port.
type PageImporter interface {
	// CreatePage writes one page under the given destination parent.
	// parentDestID is empty for roots. Returns the destination id of
	// the created page.
	CreatePage(ctx context.Context, page domain.DestinationPage, parentDestID string) (string, error)

	// UpdatePage rewrites an existing destination page in place.
	// Used when a page link already exists for the source node.
	UpdatePage(ctx context.Context, destID string, page domain.DestinationPage) error

	// CreateDatabase creates one database container for a notebook in
	// database-per-notebook mode. Returns the destination database id.
	CreateDatabase(ctx context.Context, notebook domain.DestinationPage) (string, error)
}
