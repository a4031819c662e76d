package mcp

import (
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Session is the search session driven by tool calls.
	Session driving.SessionCoordinator

	// Settings changes the sort preference. Optional; the sort tool and the
	// settings resource report an error without it.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
