package driving

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// DefaultMaxDepth bounds notebook nesting when MapOptions does not
// specify a limit.
const DefaultMaxDepth = 10

// MapOptions tunes a hierarchy mapping run.
type MapOptions struct {
	// CreateDatabases requests one synthetic database id per notebook.
	CreateDatabases bool

	// MaxDepth is the maximum number of nesting levels materialised.
	// Deeper levels are silently omitted. Depth 1 maps notebooks only.
	// Values < 1 fall back to DefaultMaxDepth.
	MaxDepth int

	// Progress receives checkpoint events. Nil means no progress.
	Progress ProgressSink
}

// HierarchyMapper transforms a source notebook forest into a validated
// destination page forest.
type HierarchyMapper interface {
	// MapHierarchy maps the forest. The run is synchronous and
	// sequential; validation findings (dangling parents, cycles) are
	// reported in the result's Errors, not raised.
	MapHierarchy(ctx context.Context, notebooks []domain.SourceNode, opts MapOptions) domain.MappingResult
}
