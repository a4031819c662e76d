package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
	"github.com/custodia-labs/multisearch/internal/logger"
)

// Ensure SessionCoordinator implements the interface.
var _ driving.SessionCoordinator = (*SessionCoordinator)(nil)

// cacheSaveTimeout bounds the cache write that follows a completed search.
const cacheSaveTimeout = 5 * time.Second

// searchKey identifies a search intent. At most one search is issued per key
// until the key changes or the session is reset.
type searchKey struct {
	query   string
	sources string
	sort    domain.SortKey
}

func newSearchKey(query string, sources []string, sort domain.SortKey) searchKey {
	return searchKey{
		query:   query,
		sources: strings.Join(sources, "\x00"),
		sort:    sort,
	}
}

// SessionCoordinator owns the state of one search session and reconciles it
// against the settings store, result cache, shareable location and executor.
//
// All state transitions run under a single mutex. Collaborators are called
// with the mutex held, so they must not call back into the coordinator
// synchronously. View listeners run after the mutex is released.
type SessionCoordinator struct {
	settings  driven.SettingsStore
	executor  driven.SearchExecutor
	cache     driven.ResultCache
	navigator driven.Navigator
	log       *logger.Scoped

	mu             sync.Mutex
	state          domain.SessionState
	hasLoadedCache bool
	searchID       int64
	lastSearch     *searchKey
	closed         bool

	unsubscribeSettings func()
	unsubscribeProgress func()

	emitMu       sync.Mutex
	listenersMu  sync.Mutex
	listeners    map[int]func(domain.SessionView)
	nextListener int
}

// NewSessionCoordinator creates a coordinator for a new session.
// The sort preference starts from the settings store's current value.
func NewSessionCoordinator(
	settings driven.SettingsStore,
	executor driven.SearchExecutor,
	cache driven.ResultCache,
	navigator driven.Navigator,
) *SessionCoordinator {
	state := domain.InitialSessionState()
	if sortBy := settings.Snapshot().SortBy; sortBy.IsValid() {
		state.SortPreference = sortBy
	}

	c := &SessionCoordinator{
		settings:  settings,
		executor:  executor,
		cache:     cache,
		navigator: navigator,
		log:       logger.Scope("session " + uuid.NewString()[:8]),
		state:     state,
		listeners: make(map[int]func(domain.SessionView)),
	}
	c.unsubscribeProgress = executor.Subscribe(c.onProgress)

	return c
}

// Mount restores the session from the shareable location, then starts
// reconciling against the settings store. Only the first call has effect.
func (c *SessionCoordinator) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.hasLoadedCache || c.closed {
		c.mu.Unlock()
		return
	}
	c.hasLoadedCache = true
	c.restore(ctx)
	c.mu.Unlock()
	c.emit()

	unsubscribe := c.settings.Subscribe(c.onSettingsChanged)
	c.mu.Lock()
	c.unsubscribeSettings = unsubscribe
	c.mu.Unlock()

	c.onSettingsChanged()
}

// restore prefers a matching cached record over a live search.
// Caller must hold c.mu.
func (c *SessionCoordinator) restore(ctx context.Context) {
	query := c.navigator.InitialQuery()
	if strings.TrimSpace(query) == "" {
		c.log.Debug("no query in location, staying idle")
		return
	}

	record, err := c.cache.Load(ctx)
	if err != nil {
		c.log.Warn("cache load failed, searching live: %v", err)
		record = nil
	}

	if record.Restorable(query) {
		c.log.Info("restoring %d cached results for %q", len(record.Results), query)
		c.executor.LoadCachedResults(record.Results, record.AvailableSources)
		c.state.Query = query
		c.state.HasSearched = true
		return
	}

	c.log.Debug("cache miss for %q", query)
	c.search(query)
}

// HandleSearch runs query against the enabled sources.
// Blank or whitespace-only queries leave the session untouched.
func (c *SessionCoordinator) HandleSearch(query string) {
	if strings.TrimSpace(query) == "" {
		c.log.Debug("ignoring blank query")
		return
	}

	c.mu.Lock()
	c.search(query)
	c.mu.Unlock()
	c.emit()
}

// search is the search action shared by explicit searches and mount-restore.
// Caller must hold c.mu.
func (c *SessionCoordinator) search(query string) {
	c.state.Query = query
	c.state.HasSearched = true
	c.navigator.Replace(query)

	sources := c.settings.Snapshot().EnabledSources()
	if len(sources) == 0 {
		c.log.Info("no enabled sources yet, deferring search for %q", query)
		return
	}

	c.issue(query, sources, c.state.SortPreference)
}

// issue hands a search to the executor and remembers its intent.
// Caller must hold c.mu.
func (c *SessionCoordinator) issue(query string, sources []string, sort domain.SortKey) {
	c.log.Info("searching %q across %v sorted by %s", query, sources, sort)
	c.searchID = c.executor.PerformSearch(query, sources, sort)
	key := newSearchKey(query, sources, sort)
	c.lastSearch = &key
}

// onSettingsChanged reconciles the session with the settings store.
// It runs on every store notification and once when mounting, and is
// idempotent: repeating it on unchanged state issues nothing.
func (c *SessionCoordinator) onSettingsChanged() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.reconcile()
	c.mu.Unlock()
	c.emit()
}

// reconcile adopts the store's sort preference and retries a search whose
// sources were not available when it was requested. Caller must hold c.mu.
func (c *SessionCoordinator) reconcile() {
	snapshot := c.settings.Snapshot()

	if snapshot.SortBy.IsValid() && snapshot.SortBy != c.state.SortPreference {
		c.log.Debug("sort preference %s -> %s", c.state.SortPreference, snapshot.SortBy)
		c.state.SortPreference = snapshot.SortBy
		c.sortChanged()
	}

	if c.state.Query == "" {
		return
	}
	sources := snapshot.EnabledSources()
	if len(sources) == 0 {
		// Re-enabling the same sources later is a new source list.
		c.lastSearch = nil
		return
	}

	progress := c.executor.Progress()
	if progress.Loading {
		return
	}
	if c.state.HasSearched && len(progress.Results) > 0 {
		return
	}

	key := newSearchKey(c.state.Query, sources, c.state.SortPreference)
	if c.lastSearch != nil && *c.lastSearch == key {
		return
	}

	c.log.Debug("sources available, retrying %q", c.state.Query)
	c.issue(c.state.Query, sources, c.state.SortPreference)
	c.state.HasSearched = true
}

// sortChanged reorders fetched results in place. It never searches.
// A loading search is re-sorted even before results arrive, so results
// merged later follow the new order. Caller must hold c.mu.
func (c *SessionCoordinator) sortChanged() {
	if !c.state.HasSearched {
		return
	}
	progress := c.executor.Progress()
	if !progress.Loading && len(progress.Results) == 0 {
		return
	}
	c.executor.ApplySorting(c.state.SortPreference)
}

// HandleReset returns the session to idle, discards the executor's results
// and clears the shareable location. Results of a search still in flight
// are ignored when they arrive.
func (c *SessionCoordinator) HandleReset() {
	c.mu.Lock()
	c.state.Query = ""
	c.state.HasSearched = false
	c.searchID = 0
	c.lastSearch = nil
	c.executor.ResetSearch()
	c.navigator.Clear()
	c.mu.Unlock()

	c.log.Debug("session reset")
	c.emit()
}

// onProgress receives executor telemetry. A finished search that still
// belongs to this session is saved to the result cache.
func (c *SessionCoordinator) onProgress(p domain.Progress) {
	c.mu.Lock()
	if p.Done() && p.SearchID == c.searchID && p.Query == c.state.Query {
		c.saveCompleted(p)
	} else if p.Done() {
		c.log.Debug("ignoring late results for %q", p.Query)
	}
	c.mu.Unlock()
	c.emit()
}

// saveCompleted persists a finished search. Caller must hold c.mu.
func (c *SessionCoordinator) saveCompleted(p domain.Progress) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheSaveTimeout)
	defer cancel()

	record := domain.CachedSearchRecord{
		Query:            p.Query,
		Results:          p.Results,
		AvailableSources: p.AvailableSources,
	}
	if err := c.cache.Save(ctx, record); err != nil {
		c.log.Warn("cache save failed: %v", err)
		return
	}
	c.log.Debug("cached %d results for %q", len(p.Results), p.Query)
}

// View returns the current observable state.
func (c *SessionCoordinator) View() domain.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *SessionCoordinator) viewLocked() domain.SessionView {
	p := c.executor.Progress()
	return domain.SessionView{
		Query:            c.state.Query,
		HasSearched:      c.state.HasSearched,
		SortPreference:   c.state.SortPreference,
		Loading:          p.Loading,
		Results:          p.Results,
		AvailableSources: p.AvailableSources,
		CompletedSources: p.CompletedSources,
		TotalSources:     p.TotalSources,
		Errors:           p.Errors,
		Location:         c.navigator.Location(),
	}
}

// State returns a copy of the session state.
func (c *SessionCoordinator) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive the view after every change.
// fn must not call back into the coordinator synchronously.
func (c *SessionCoordinator) Subscribe(fn func(domain.SessionView)) func() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

// emit delivers the latest view to listeners, one emission at a time.
func (c *SessionCoordinator) emit() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.listenersMu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(domain.SessionView), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.listenersMu.Unlock()

	if len(fns) == 0 {
		return
	}

	view := c.View()
	for _, fn := range fns {
		fn(view)
	}
}

// Wait blocks until the session is settled or ctx is done.
// A session waiting for sources, or one never searched, does not settle.
func (c *SessionCoordinator) Wait(ctx context.Context) (domain.SessionView, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := c.Subscribe(func(domain.SessionView) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		view := c.View()
		if view.Settled() {
			return view, nil
		}
		select {
		case <-ctx.Done():
			return view, fmt.Errorf("%w: %w", domain.ErrNotSettled, ctx.Err())
		case <-changed:
		}
	}
}

// Close stops listening to the settings store and executor.
func (c *SessionCoordinator) Close() {
	c.mu.Lock()
	c.closed = true
	unsubscribeSettings := c.unsubscribeSettings
	unsubscribeProgress := c.unsubscribeProgress
	c.unsubscribeSettings = nil
	c.unsubscribeProgress = nil
	c.mu.Unlock()

	if unsubscribeSettings != nil {
		unsubscribeSettings()
	}
	if unsubscribeProgress != nil {
		unsubscribeProgress()
	}
}
