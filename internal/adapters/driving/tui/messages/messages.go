// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/multisearch/internal/core/domain"
)

// SessionUpdated carries the latest session view to the model.
type SessionUpdated struct {
	View domain.SessionView
}

// SettingsUpdated carries a fresh settings snapshot to the model.
type SettingsUpdated struct {
	Settings domain.Settings
}

// ErrorOccurred reports a failed action.
type ErrorOccurred struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewSettings lists the sort order and sources.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}
