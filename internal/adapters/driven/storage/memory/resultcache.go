package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
)

// Ensure ResultCache implements the interface.
var _ driven.ResultCache = (*ResultCache)(nil)

// ResultCache is an in-memory single-slot implementation of driven.ResultCache.
type ResultCache struct {
	mu     sync.RWMutex
	record *domain.CachedSearchRecord
}

// NewResultCache creates an empty in-memory result cache.
func NewResultCache() *ResultCache {
	return &ResultCache{}
}

// Load returns a copy of the cached record, or nil if empty.
func (c *ResultCache) Load(_ context.Context) (*domain.CachedSearchRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.record == nil {
		return nil, nil
	}
	record := copyRecord(*c.record)
	return &record, nil
}

// Save replaces the cached record.
func (c *ResultCache) Save(_ context.Context, record domain.CachedSearchRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := copyRecord(record)
	c.record = &stored
	return nil
}

// Clear empties the cache.
func (c *ResultCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = nil
	return nil
}

func copyRecord(r domain.CachedSearchRecord) domain.CachedSearchRecord {
	return domain.CachedSearchRecord{
		Query:            r.Query,
		Results:          append([]domain.Result(nil), r.Results...),
		AvailableSources: append([]string(nil), r.AvailableSources...),
	}
}
