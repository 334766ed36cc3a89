package mcp

import (
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server reads through.
type Ports struct {
	// Journal provides read access to entries.
	Journal driving.JournalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Journal == nil {
		return ErrMissingJournalService
	}
	return nil
}
