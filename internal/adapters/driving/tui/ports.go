// Package tui provides an interactive terminal user interface for multisearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Session is the search session shown by the TUI.
	Session driving.SessionCoordinator

	// Settings changes the sort order and source enablement.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSession
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
