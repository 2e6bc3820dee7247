// Package mcp provides an MCP (Model Context Protocol) server adapter for
// notelift. It lets AI assistants resolve OneNote links, preview migrations,
// and inspect import jobs.
package mcp

import "errors"

// ErrMissingMigrationService is returned when the migration service is not provided.
var ErrMissingMigrationService = errors.New("mcp: migration service is required")
