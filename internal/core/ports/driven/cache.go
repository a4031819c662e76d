package driven

import (
	"context"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

// ResultCache persists the most recent search. It holds a single slot:
// every Save replaces the previous record.
type ResultCache interface {
	// Load returns the cached record, or nil if the cache is empty.
	Load(ctx context.Context) (*domain.CachedSearchRecord, error)

	// Save replaces the cached record.
	Save(ctx context.Context, record domain.CachedSearchRecord) error

	// Clear empties the cache.
	Clear(ctx context.Context) error
}
