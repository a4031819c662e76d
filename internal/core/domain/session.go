package domain

// SessionState is the coordinator-owned state of one search session.
type SessionState struct {
	// Query is the last query the user intends to see results for.
	Query string

	// HasSearched distinguishes "never searched" from "searched, zero results".
	// True iff a search was explicitly triggered or a cache record was restored.
	HasSearched bool

	// SortPreference mirrors the settings store but may transiently lag it.
	SortPreference SortKey
}

// InitialSessionState returns the state of a fresh session.
func InitialSessionState() SessionState {
	return SessionState{SortPreference: DefaultSortKey}
}

// CachedSearchRecord is the last persisted search, used for instant restore.
type CachedSearchRecord struct {
	Query            string   `json:"query"`
	Results          []Result `json:"results"`
	AvailableSources []string `json:"available_sources"`
}

// Restorable reports whether the record may stand in for a live search of query.
// The query must match exactly and at least one result must be present.
func (r *CachedSearchRecord) Restorable(query string) bool {
	return r != nil && r.Query == query && len(r.Results) > 0
}

// Progress is the executor's telemetry for the current search.
type Progress struct {
	// SearchID identifies the search that produced this progress.
	// Zero for cache hydration or after reset.
	SearchID int64

	// Query is the query being searched.
	Query string

	// Loading is true while any source is still running.
	Loading bool

	// Results is the merged, sorted result list so far.
	Results []Result

	// AvailableSources lists the sources that answered successfully.
	AvailableSources []string

	// CompletedSources counts sources that finished, successfully or not.
	CompletedSources int

	// TotalSources counts sources the search was issued to.
	TotalSources int

	// Errors maps source ID to its failure message.
	Errors map[string]string
}

// Done reports whether the search identified by SearchID has finished.
func (p Progress) Done() bool {
	return p.SearchID != 0 && !p.Loading
}

// SessionView is the coordinator's observable surface for presentation layers.
type SessionView struct {
	Query            string            `json:"query"`
	HasSearched      bool              `json:"has_searched"`
	SortPreference   SortKey           `json:"sort_preference"`
	Loading          bool              `json:"loading"`
	Results          []Result          `json:"results"`
	AvailableSources []string          `json:"available_sources"`
	CompletedSources int               `json:"completed_sources"`
	TotalSources     int               `json:"total_sources"`
	Errors           map[string]string `json:"errors,omitempty"`
	Location         string            `json:"location"`
}

// Phase derives the conceptual state of the session.
func (v SessionView) Phase() Phase {
	switch {
	case v.Loading:
		return PhaseSearching
	case v.Query == "" && !v.HasSearched:
		return PhaseIdle
	case v.TotalSources == 0 && len(v.Results) == 0:
		return PhaseAwaitingSources
	default:
		return PhaseSettled
	}
}

// Settled reports whether a search has been attempted and nothing is running.
// A session waiting for sources is not settled.
func (v SessionView) Settled() bool {
	return v.Phase() == PhaseSettled
}

// Phase names the conceptual states of a search session.
type Phase string

// Session phases.
const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitingSources Phase = "awaiting_sources"
	PhaseSearching       Phase = "searching"
	PhaseSettled         Phase = "settled"
)
