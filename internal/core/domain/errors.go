package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown fetcher or parser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrImportInProgress indicates an import is already running for
	// the job.
	ErrImportInProgress = errors.New("import in progress")

	// ErrFetcherValidation indicates a fetcher is misconfigured or its
	// credentials are invalid.
	ErrFetcherValidation = errors.New("fetcher validation failed")

	// ErrRateLimited indicates the cloud API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates the fetcher requires authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrImporterUnavailable indicates no destination importer is
	// configured. Preview still works; import does not.
	ErrImporterUnavailable = errors.New("importer unavailable")
)
