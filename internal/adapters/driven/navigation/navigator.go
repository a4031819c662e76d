package navigation

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/logger"
)

const (
	// Scheme is the URL scheme of shareable locations.
	Scheme = "multisearch"

	// BaseLocation is the location of an idle session.
	BaseLocation = Scheme + "://search"

	// QueryParam carries the query in a location.
	QueryParam = "q"

	// ConfigKey stores the current location between runs.
	ConfigKey = "session.location"
)

// Ensure Navigator implements the interface.
var _ driven.Navigator = (*Navigator)(nil)

// Format returns the shareable location for query.
func Format(query string) string {
	if query == "" {
		return BaseLocation
	}
	return BaseLocation + "?" + url.Values{QueryParam: {query}}.Encode()
}

// Parse extracts the query from a shareable location.
// The bare location yields an empty query.
func Parse(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: location %q: %v", domain.ErrInvalidInput, location, err)
	}
	if u.Scheme != Scheme || u.Host != "search" {
		return "", fmt.Errorf("%w: location %q is not a %s search", domain.ErrInvalidInput, location, Scheme)
	}
	return u.Query().Get(QueryParam), nil
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLocation starts from location instead of the persisted one.
func WithLocation(location string) Option {
	return func(n *Navigator) {
		n.initial = location
		n.explicit = true
	}
}

// Navigator keeps the session query in a shareable location with replace
// semantics: there is one current value and no history.
//
// The location is persisted to the config store from a background goroutine,
// so Replace and Clear never call into the store directly. Close flushes the
// final value.
type Navigator struct {
	store    driven.ConfigStore
	initial  string
	explicit bool

	mu       sync.Mutex
	location string
	dirty    bool

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a navigator whose initial location is read from store.
func New(store driven.ConfigStore, opts ...Option) *Navigator {
	n := &Navigator{
		store: store,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if !n.explicit {
		n.initial = store.GetString(ConfigKey)
	}

	n.location = BaseLocation
	if n.initial != "" {
		if _, err := Parse(n.initial); err != nil {
			logger.Warn("navigation: ignoring %v", err)
			n.initial = ""
		} else {
			n.location = n.initial
		}
	}

	go n.run()
	return n
}

// InitialQuery returns the query of the location the navigator started with.
func (n *Navigator) InitialQuery() string {
	if n.initial == "" {
		return ""
	}
	query, err := Parse(n.initial)
	if err != nil {
		return ""
	}
	return query
}

// Replace sets the location's query.
func (n *Navigator) Replace(query string) {
	n.set(Format(query))
}

// Clear resets the location to BaseLocation.
func (n *Navigator) Clear() {
	n.set(BaseLocation)
}

// Location returns the current shareable location.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

func (n *Navigator) set(location string) {
	n.mu.Lock()
	if n.location == location {
		n.mu.Unlock()
		return
	}
	n.location = location
	n.dirty = true
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// run persists the latest location whenever it changes.
func (n *Navigator) run() {
	defer close(n.done)
	for {
		select {
		case <-n.wake:
			n.flush()
		case <-n.stop:
			n.flush()
			return
		}
	}
}

func (n *Navigator) flush() {
	n.mu.Lock()
	if !n.dirty {
		n.mu.Unlock()
		return
	}
	location := n.location
	n.dirty = false
	n.mu.Unlock()

	if err := n.store.Set(ConfigKey, location); err != nil {
		logger.Warn("navigation: persist location: %v", err)
	}
}

// Close persists the final location and stops the background writer.
func (n *Navigator) Close() {
	n.closeOnce.Do(func() {
		close(n.stop)
	})
	<-n.done
}
