// Package domain defines the core business entities for notelift.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ResolvedLink: A classified OneNote reference (local path, OneDrive
//     share, onenote: protocol URL)
//   - FetchOutcome: Per-reference result of content retrieval
//   - BatchResult: Aggregate outcome of a bounded-concurrency fetch batch
//   - SourceNode: One node of the source notebook/section/page tree
//   - DestinationPage: One node of the mapped output tree
//   - MappingResult: Outcome of a hierarchy mapping run
//   - ImportJob: Persistent state of a selective, resumable import
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
