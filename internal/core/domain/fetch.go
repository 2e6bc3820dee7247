package domain

// FetchOrigin records where fetched content came from.
type FetchOrigin int

const (
	// OriginUnresolved means the reference never reached a fetcher.
	OriginUnresolved FetchOrigin = iota

	// OriginLocalPath means content was read from the local filesystem.
	OriginLocalPath

	// OriginCloudShare means content was downloaded from OneDrive.
	OriginCloudShare
)

// String returns a human-readable name for the origin.
func (o FetchOrigin) String() string {
	switch o {
	case OriginLocalPath:
		return "local"
	case OriginCloudShare:
		return "onedrive"
	default:
		return "unresolved"
	}
}

// FetchOutcome is the per-reference result of content retrieval.
// Created once by the batch processor and never mutated afterwards.
type FetchOutcome struct {
	// Succeeded reports whether content was retrieved.
	Succeeded bool

	// DisplayName is the notebook name, set on success.
	DisplayName string

	// Content holds the retrieved bytes when the payload fits in memory.
	Content []byte

	// LocalPath references an on-disk file when the payload was not
	// buffered. Exactly one of Content and LocalPath is set on success.
	LocalPath string

	// Origin records where the content came from.
	Origin FetchOrigin

	// FailureReason describes the failure. Set exactly when Succeeded
	// is false.
	FailureReason string
}

// ByteLength returns the size of an in-memory payload, or 0 for
// file-backed and failed outcomes.
func (o FetchOutcome) ByteLength() int {
	return len(o.Content)
}

// BatchResult aggregates the outcomes of one processed reference batch.
type BatchResult struct {
	// OverallSucceeded is true iff every item succeeded.
	OverallSucceeded bool

	// TotalCount is the number of input references.
	TotalCount int

	// SucceededCount is the number of successful fetches.
	SucceededCount int

	// FailedCount is the number of failed fetches.
	// SucceededCount + FailedCount == TotalCount.
	FailedCount int

	// Outcomes holds one entry per input reference, in input order,
	// independent of completion order.
	Outcomes []FetchOutcome

	// FailureMessages holds one message per failed item, in failure
	// occurrence order. len(FailureMessages) == FailedCount.
	FailureMessages []string
}
