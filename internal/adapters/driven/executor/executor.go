package executor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/logger"
)

// Ensure Executor implements the interface.
var _ driven.SearchExecutor = (*Executor)(nil)

// DefaultSourceTimeout bounds a single provider call.
const DefaultSourceTimeout = 15 * time.Second

// Option configures an Executor.
type Option func(*Executor)

// WithSourceTimeout sets the per-provider timeout. Zero disables it.
func WithSourceTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.sourceTimeout = d
	}
}

// Executor fans a query out to source providers concurrently and merges
// their results as they arrive. Only the latest search updates progress;
// results of superseded searches are dropped when they return.
type Executor struct {
	ctx           context.Context
	providers     map[string]driven.SourceProvider
	order         []string
	sourceTimeout time.Duration

	mu       sync.Mutex
	nextID   int64
	sort     domain.SortKey
	progress domain.Progress

	// notifyMu serialises deliveries so subscribers see progress in order.
	notifyMu sync.Mutex
	subsMu   sync.Mutex
	subs     map[int]func(domain.Progress)
	nextSub  int

	wg sync.WaitGroup
}

// New creates an executor over providers. Provider calls derive their
// context from ctx, so cancelling it abandons in-flight work on shutdown.
func New(ctx context.Context, providers []driven.SourceProvider, opts ...Option) *Executor {
	e := &Executor{
		ctx:           ctx,
		providers:     make(map[string]driven.SourceProvider, len(providers)),
		sourceTimeout: DefaultSourceTimeout,
		sort:          domain.DefaultSortKey,
		subs:          make(map[int]func(domain.Progress)),
	}
	for _, p := range providers {
		if _, dup := e.providers[p.ID()]; dup {
			logger.Warn("executor: duplicate provider %q ignored", p.ID())
			continue
		}
		e.providers[p.ID()] = p
		e.order = append(e.order, p.ID())
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SourceIDs returns the registered provider IDs in registration order.
func (e *Executor) SourceIDs() []string {
	return slices.Clone(e.order)
}

// PerformSearch starts query against sources and returns the new search ID.
func (e *Executor) PerformSearch(query string, sources []string, sort domain.SortKey) int64 {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.sort = sort
	e.progress = domain.Progress{
		SearchID:     id,
		Query:        query,
		Loading:      len(sources) > 0,
		TotalSources: len(sources),
		Errors:       map[string]string{},
	}
	e.mu.Unlock()

	logger.Debug("executor: search #%d %q across %d sources", id, query, len(sources))

	if len(sources) == 0 {
		// Nothing to run; still report completion from outside the caller.
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.publish(id)
		}()
		return id
	}

	for _, source := range sources {
		e.wg.Add(1)
		go func(source string) {
			defer e.wg.Done()
			e.run(id, query, source)
		}(source)
	}
	return id
}

// run executes one provider and merges its outcome into progress.
func (e *Executor) run(id int64, query, source string) {
	start := time.Now()
	results, err := e.call(query, source)
	logger.Debug("executor: search #%d source %s finished in %s (%d results, err=%v)",
		id, source, time.Since(start).Round(time.Millisecond), len(results), err)

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	if e.progress.SearchID != id {
		e.mu.Unlock()
		logger.Debug("executor: dropping stale results of search #%d from %s", id, source)
		return
	}

	p := &e.progress
	p.CompletedSources++
	if err != nil {
		p.Errors[source] = err.Error()
	} else {
		p.AvailableSources = append(p.AvailableSources, source)
		p.Results = append(p.Results, results...)
		domain.SortResults(p.Results, e.sort)
	}
	p.Loading = p.CompletedSources < p.TotalSources
	snapshot := cloneProgress(e.progress)
	e.mu.Unlock()

	e.deliver(snapshot)
}

// call invokes the provider for source, converting panics into errors.
func (e *Executor) call(query, source string) (results []domain.Result, err error) {
	provider, ok := e.providers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}

	ctx := e.ctx
	if e.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.sourceTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("executor: provider %s panicked: %v", source, r)
			results, err = nil, fmt.Errorf("%w: %s: provider panic: %v", domain.ErrSourceUnavailable, source, r)
		}
	}()

	results, err = provider.Search(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s: timed out", domain.ErrSourceUnavailable, source)
		}
		return nil, err
	}
	for i := range results {
		if results[i].SourceID == "" {
			results[i].SourceID = source
		}
	}
	return results, nil
}

// publish delivers the current progress if it still belongs to search id.
func (e *Executor) publish(id int64) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	if e.progress.SearchID != id {
		e.mu.Unlock()
		return
	}
	snapshot := cloneProgress(e.progress)
	e.mu.Unlock()

	e.deliver(snapshot)
}

// ResetSearch discards progress. Running providers finish in the background
// and their results are dropped.
func (e *Executor) ResetSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = domain.Progress{}
}

// LoadCachedResults replaces progress with a settled, fully completed state.
func (e *Executor) LoadCachedResults(results []domain.Result, availableSources []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.progress = domain.Progress{
		Results:          slices.Clone(results),
		AvailableSources: slices.Clone(availableSources),
		CompletedSources: len(availableSources),
		TotalSources:     len(availableSources),
	}
}

// ApplySorting reorders the fetched results. Results merged later by a
// running search follow the new order too.
func (e *Executor) ApplySorting(sort domain.SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sort = sort
	domain.SortResults(e.progress.Results, sort)
}

// Progress returns a copy of the current progress.
func (e *Executor) Progress() domain.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneProgress(e.progress)
}

// Subscribe registers fn to receive progress from running searches.
func (e *Executor) Subscribe(fn func(domain.Progress)) func() {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn

	return func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		delete(e.subs, id)
	}
}

// Wait blocks until every provider call started so far has returned.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// deliver calls subscribers. Caller must hold notifyMu but not mu.
func (e *Executor) deliver(p domain.Progress) {
	e.subsMu.Lock()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(domain.Progress), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.subs[id])
	}
	e.subsMu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func cloneProgress(p domain.Progress) domain.Progress {
	p.Results = slices.Clone(p.Results)
	p.AvailableSources = slices.Clone(p.AvailableSources)
	if p.Errors != nil {
		errs := make(map[string]string, len(p.Errors))
		for k, v := range p.Errors {
			errs[k] = v
		}
		p.Errors = errs
	}
	return p
}
