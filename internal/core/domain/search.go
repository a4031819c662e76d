package domain

import (
	"sort"
	"strings"
	"time"
)

// SortKey selects how aggregated results are ordered.
type SortKey string

// Available sort keys.
const (
	// SortByRelevance orders by descending provider score.
	SortByRelevance SortKey = "relevance"

	// SortByDate orders by most recently updated first.
	SortByDate SortKey = "date"

	// SortByTitle orders alphabetically by title.
	SortByTitle SortKey = "title"

	// SortBySource groups results by source, then by score.
	SortBySource SortKey = "source"
)

// DefaultSortKey is used when no preference has been stored.
const DefaultSortKey = SortByRelevance

// IsValid returns true if the sort key is recognised.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByRelevance, SortByDate, SortByTitle, SortBySource:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SortKey) String() string {
	return string(k)
}

// Description returns a human-readable description of the sort key.
func (k SortKey) Description() string {
	switch k {
	case SortByRelevance:
		return "Relevance"
	case SortByDate:
		return "Most recent"
	case SortByTitle:
		return "Title (A-Z)"
	case SortBySource:
		return "Source"
	default:
		return "Unknown"
	}
}

// Next returns the sort key after k in AllSortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	keys := AllSortKeys()
	for i, key := range keys {
		if key == k {
			return keys[(i+1)%len(keys)]
		}
	}
	return DefaultSortKey
}

// AllSortKeys returns all available sort keys in display order.
func AllSortKeys() []SortKey {
	return []SortKey{
		SortByRelevance,
		SortByDate,
		SortByTitle,
		SortBySource,
	}
}

// ParseSortKey converts a string to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", ErrInvalidSortKey
	}
	return k, nil
}

// Result represents a single hit returned by a source.
type Result struct {
	// ID is unique within the source that produced it.
	ID string `json:"id"`

	// SourceID identifies the source that produced the result.
	SourceID string `json:"source_id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// URL locates the original item (file path, web URL).
	URL string `json:"url"`

	// Snippet is a short excerpt containing the matched terms.
	Snippet string `json:"snippet,omitempty"`

	// Score is the provider's relevance score. Higher is better.
	Score float64 `json:"score"`

	// UpdatedAt is when the underlying item last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// SortResults orders results in place by the given key.
// The sort is stable so equal elements keep their arrival order.
func SortResults(results []Result, key SortKey) {
	var less func(a, b Result) bool

	switch key {
	case SortByDate:
		less = func(a, b Result) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	case SortByTitle:
		less = func(a, b Result) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortBySource:
		less = func(a, b Result) bool {
			if a.SourceID != b.SourceID {
				return a.SourceID < b.SourceID
			}
			return a.Score > b.Score
		}
	default:
		less = func(a, b Result) bool { return a.Score > b.Score }
	}

	sort.SliceStable(results, func(i, j int) bool {
		return less(results[i], results[j])
	})
}
