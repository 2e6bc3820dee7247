package driving

import "github.com/notelift/notelift-cli/internal/core/domain"

// ProgressSink receives mapping progress events at defined checkpoints.
// Implementations must be cheap and non-blocking; events are
// fire-and-forget and delivered synchronously from the mapping run.
type ProgressSink interface {
	// OnStage reports a checkpoint. Percent is 0-100. Current and total
	// are item counters when the stage iterates over items, zero
	// otherwise.
	OnStage(stage string, percent int, message string, current, total int)
}

// BatchProgressFunc receives one call per batch item, in completion
// order, before the batch result is returned.
type BatchProgressFunc func(completed, total int, outcome domain.FetchOutcome)

// NopProgress is a ProgressSink that discards all events.
// Used as the default so services never nil-check their sink.
type NopProgress struct{}

// OnStage implements ProgressSink.
func (NopProgress) OnStage(string, int, string, int, int) {}
