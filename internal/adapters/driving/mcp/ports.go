package mcp

import (
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Migration runs previews and reports migration status.
	Migration driving.MigrationService

	// Jobs reads recorded import jobs.
	Jobs driven.ImportJobStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Migration == nil {
		return ErrMissingMigrationService
	}
	// Jobs is optional; the job tools report unavailability instead
	return nil
}
