package driven

import "github.com/custodia-labs/multisearch/internal/core/domain"

// SettingsStore exposes the shared search settings to the session coordinator.
// Many consumers may read it; only its own mutation API writes it.
type SettingsStore interface {
	// Snapshot returns the current settings.
	Snapshot() domain.Settings

	// Subscribe registers fn to be called after every settings mutation.
	// Notifications are at-least-once; fn must tolerate duplicates.
	// fn is never called while the store holds its own lock.
	Subscribe(fn func()) (unsubscribe func())
}
