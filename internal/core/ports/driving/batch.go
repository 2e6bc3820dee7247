package driving

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// DefaultBatchConcurrency bounds in-flight fetches when BatchOptions
// does not specify a limit.
const DefaultBatchConcurrency = 5

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// Concurrency bounds the number of in-flight fetches.
	// Values < 1 fall back to DefaultBatchConcurrency.
	Concurrency int
}

// BatchProcessor drives many references through content fetching under
// a bounded-concurrency policy.
type BatchProcessor interface {
	// ProcessBatch resolves and fetches every reference. Per-item
	// failures are recorded in the result, never returned as an error;
	// one bad item does not block the others.
	ProcessBatch(ctx context.Context, refs []string, opts BatchOptions) domain.BatchResult

	// ProcessBatchWithProgress is ProcessBatch plus a per-item progress
	// callback invoked exactly once per item, in completion order.
	ProcessBatchWithProgress(ctx context.Context, refs []string, opts BatchOptions, onProgress BatchProgressFunc) domain.BatchResult
}
