package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
)

// resultCache implements driven.ResultCache as a one-row table.
type resultCache struct {
	store *Store
}

var _ driven.ResultCache = (*resultCache)(nil)

// Load returns the cached record, or nil if nothing was saved.
func (c *resultCache) Load(ctx context.Context) (*domain.CachedSearchRecord, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT query, results, available_sources
		FROM search_cache WHERE slot = 1
	`)

	var record domain.CachedSearchRecord
	var resultsJSON, sourcesJSON string
	if err := row.Scan(&record.Query, &resultsJSON, &sourcesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning search cache: %w", err)
	}

	if err := json.Unmarshal([]byte(resultsJSON), &record.Results); err != nil {
		return nil, fmt.Errorf("unmarshaling cached results: %w", err)
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &record.AvailableSources); err != nil {
		return nil, fmt.Errorf("unmarshaling cached sources: %w", err)
	}
	return &record, nil
}

// Save replaces the cached record.
func (c *resultCache) Save(ctx context.Context, record domain.CachedSearchRecord) error {
	results := record.Results
	if results == nil {
		results = []domain.Result{}
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	sources := record.AvailableSources
	if sources == nil {
		sources = []string{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshaling sources: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO search_cache (slot, query, results, available_sources, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			query = excluded.query,
			results = excluded.results,
			available_sources = excluded.available_sources,
			saved_at = excluded.saved_at
	`, record.Query, string(resultsJSON), string(sourcesJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving search cache: %w", err)
	}
	return nil
}

// Clear empties the cache.
func (c *resultCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM search_cache"); err != nil {
		return fmt.Errorf("clearing search cache: %w", err)
	}
	return nil
}
