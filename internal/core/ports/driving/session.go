package driving

import (
	"context"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

// SessionCoordinator is the search session consumed by presentation layers.
type SessionCoordinator interface {
	// Mount restores the session from the shareable location and cache,
	// then starts listening for settings changes. Only the first call has effect.
	Mount(ctx context.Context)

	// HandleSearch runs query against the enabled sources.
	// Blank queries are ignored.
	HandleSearch(query string)

	// HandleReset returns the session to its initial state.
	HandleReset()

	// View returns the current observable state.
	View() domain.SessionView

	// Subscribe registers fn to receive the view after every change.
	Subscribe(fn func(domain.SessionView)) (unsubscribe func())

	// Wait blocks until the session settles or ctx is done.
	Wait(ctx context.Context) (domain.SessionView, error)

	// Close stops listening to collaborators.
	Close()
}
