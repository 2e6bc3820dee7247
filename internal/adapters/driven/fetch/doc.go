// Package fetch provides implementations of the ContentFetcher interface
// for the link kinds the resolver produces. The local fetcher reads
// notebook files from disk; the graph fetcher downloads OneDrive shares
// over the Microsoft Graph API.
//
// Fetchers are registered with a Router at startup; the batch processor
// routes each resolved link to the fetcher for its kind.
package fetch
