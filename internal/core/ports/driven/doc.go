// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContentFetcher: Retrieves notebook bytes for a resolved link
//   - NotebookParser: Parses fetched content into a source tree
//   - ParserRegistry: Selects the appropriate parser
//   - ImportJobStore: Import job persistence
//   - PageLinkStore: Source-to-destination page mapping persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PageImporter: Writes mapped pages to the destination store.
//     Without it, preview works but import is disabled.
//   - SourceWatcher: Flags jobs whose local sources changed on disk.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or fetcher package
package driven
