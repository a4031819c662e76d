package driven

import "github.com/custodia-labs/multisearch/internal/core/domain"

// SearchExecutor fans a query out to the enabled sources and owns the
// resulting progress state. Commands return without blocking on network work.
//
// Implementations must not invoke progress subscribers synchronously from
// within a command; progress is delivered from the executor's own goroutines.
type SearchExecutor interface {
	// PerformSearch starts a search and returns its ID.
	// Any earlier search is superseded and its late results are dropped.
	PerformSearch(query string, sources []string, sort domain.SortKey) int64

	// ResetSearch discards results and progress.
	ResetSearch()

	// LoadCachedResults hydrates the display state without any network work.
	LoadCachedResults(results []domain.Result, availableSources []string)

	// ApplySorting reorders the already-fetched results in place.
	ApplySorting(sort domain.SortKey)

	// Progress returns a snapshot of the current telemetry.
	Progress() domain.Progress

	// Subscribe registers fn to receive progress updates from running searches.
	Subscribe(fn func(domain.Progress)) (unsubscribe func())
}
