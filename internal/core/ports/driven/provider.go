package driven

import (
	"context"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

// SourceProvider searches one independently toggleable source.
// Each source type (filesystem, github, etc.) implements this interface.
type SourceProvider interface {
	// ID returns the source identifier used in settings.
	ID() string

	// Search returns results matching query.
	// Implementations should honour context cancellation.
	Search(ctx context.Context, query string) ([]domain.Result, error)
}
