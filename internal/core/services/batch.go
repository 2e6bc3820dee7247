package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/links"
	"github.com/notelift/notelift-cli/internal/logger"
)

// Ensure BatchProcessor implements the interface.
var _ driving.BatchProcessor = (*BatchProcessor)(nil)

// BatchProcessor drives reference batches through content fetching under
// a bounded-concurrency policy. Outcomes land in a slot array indexed by
// input position, so result order matches input order no matter how
// fetches interleave.
type BatchProcessor struct {
	router driven.FetcherRouter
}

// NewBatchProcessor creates a batch processor backed by the given
// fetcher router.
func NewBatchProcessor(router driven.FetcherRouter) *BatchProcessor {
	return &BatchProcessor{router: router}
}

// ProcessBatch resolves and fetches every reference.
func (p *BatchProcessor) ProcessBatch(ctx context.Context, refs []string, opts driving.BatchOptions) domain.BatchResult {
	return p.ProcessBatchWithProgress(ctx, refs, opts, nil)
}

// ProcessBatchWithProgress is ProcessBatch plus a per-item callback
// invoked exactly once per item, in completion order, before the batch
// result is returned.
func (p *BatchProcessor) ProcessBatchWithProgress(
	ctx context.Context,
	refs []string,
	opts driving.BatchOptions,
	onProgress driving.BatchProgressFunc,
) domain.BatchResult {
	if len(refs) == 0 {
		return domain.BatchResult{
			OverallSucceeded: true,
			Outcomes:         []domain.FetchOutcome{},
			FailureMessages:  []string{},
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = driving.DefaultBatchConcurrency
	}

	logger.Debug("Processing batch of %d references (concurrency %d)", len(refs), concurrency)

	outcomes := make([]domain.FetchOutcome, len(refs))
	sem := semaphore.NewWeighted(int64(concurrency))

	// mu guards the completion counter, the failure list, and progress
	// delivery. Each outcome slot has exactly one writer and needs no
	// lock.
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failures  []string
		completed int
	)

	for i, ref := range refs {
		// Admission is checked before each dispatch. Cancellation never
		// interrupts in-flight fetches; it only stops new dispatches.
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = domain.FetchOutcome{
				Origin:        domain.OriginUnresolved,
				FailureReason: "batch cancelled: " + err.Error(),
			}
			mu.Lock()
			completed++
			failures = append(failures, outcomes[i].FailureReason)
			if onProgress != nil {
				onProgress(completed, len(refs), outcomes[i])
			}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(slot int, reference string) {
			defer wg.Done()
			defer sem.Release(1)

			outcome := p.fetchOne(ctx, reference)
			outcomes[slot] = outcome

			mu.Lock()
			completed++
			if !outcome.Succeeded {
				failures = append(failures, outcome.FailureReason)
			}
			if onProgress != nil {
				onProgress(completed, len(refs), outcome)
			}
			mu.Unlock()
		}(i, ref)
	}

	wg.Wait()

	succeeded := 0
	for _, o := range outcomes {
		if o.Succeeded {
			succeeded++
		}
	}
	if failures == nil {
		failures = []string{}
	}

	return domain.BatchResult{
		OverallSucceeded: len(failures) == 0,
		TotalCount:       len(refs),
		SucceededCount:   succeeded,
		FailedCount:      len(refs) - succeeded,
		Outcomes:         outcomes,
		FailureMessages:  failures,
	}
}

// fetchOne resolves one reference and fetches its content. All failure
// is folded into the outcome; one bad item never blocks the others.
func (p *BatchProcessor) fetchOne(ctx context.Context, reference string) domain.FetchOutcome {
	link := links.Resolve(reference)
	if !link.Valid {
		return domain.FetchOutcome{
			Origin:        domain.OriginUnresolved,
			FailureReason: link.ValidationError,
		}
	}

	fetcher, err := p.router.FetcherFor(link.Kind)
	if err != nil {
		return domain.FetchOutcome{
			Origin:        originFor(link.Kind),
			FailureReason: err.Error(),
		}
	}

	outcome, err := fetcher.Fetch(ctx, link)
	if err != nil {
		logger.Debug("Fetch failed for %s: %v", link.DisplayLabel(), err)
		return domain.FetchOutcome{
			Origin:        originFor(link.Kind),
			FailureReason: err.Error(),
		}
	}
	return *outcome
}

// originFor maps a link kind to the fetch origin it implies.
func originFor(kind domain.LinkKind) domain.FetchOrigin {
	if kind == domain.LinkLocalPath {
		return domain.OriginLocalPath
	}
	return domain.OriginCloudShare
}
