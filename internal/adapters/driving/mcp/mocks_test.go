package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// mockSession implements driving.SessionCoordinator for testing.
type mockSession struct {
	mu       sync.Mutex
	view     domain.SessionView
	searches []string
	resets   int

	// onSearch replaces the view after HandleSearch.
	onSearch func(query string, view *domain.SessionView)

	// wait overrides Wait when set.
	wait func(ctx context.Context) (domain.SessionView, error)
}

var _ driving.SessionCoordinator = (*mockSession)(nil)

func (m *mockSession) Mount(context.Context) {}

func (m *mockSession) HandleSearch(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, query)
	m.view.Query = query
	m.view.HasSearched = true
	if m.onSearch != nil {
		m.onSearch(query, &m.view)
	}
}

func (m *mockSession) HandleReset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.view = domain.SessionView{SortPreference: m.view.SortPreference, Location: "multisearch://search"}
}

func (m *mockSession) View() domain.SessionView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *mockSession) Subscribe(func(domain.SessionView)) func() {
	return func() {}
}

func (m *mockSession) Wait(ctx context.Context) (domain.SessionView, error) {
	if m.wait != nil {
		return m.wait(ctx)
	}
	return m.View(), nil
}

func (m *mockSession) Close() {}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	err      error
	sorts    []domain.SortKey
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() domain.Settings {
	return m.settings
}

func (m *mockSettingsService) SetSortBy(key domain.SortKey) error {
	if m.err != nil {
		return m.err
	}
	m.sorts = append(m.sorts, key)
	m.settings.SortBy = key
	return nil
}

func (m *mockSettingsService) EnableSource(string) error { return m.err }

func (m *mockSettingsService) DisableSource(string) error { return m.err }

func (m *mockSettingsService) RegisterSources([]string) error { return m.err }

// settled fills view with a finished two-source search for query.
func settled(query string, view *domain.SessionView) {
	*view = domain.SessionView{
		Query:          query,
		HasSearched:    true,
		SortPreference: domain.SortByRelevance,
		Results: []domain.Result{
			{ID: "a", SourceID: "filesystem", Title: "notes.md", URL: "/notes.md", Score: 3,
				UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
			{ID: "b", SourceID: "github", Title: "org/repo#2 bug", URL: "https://github.com/org/repo/issues/2", Score: 2},
			{ID: "c", SourceID: "filesystem", Title: "todo.txt", URL: "/todo.txt", Score: 1},
		},
		AvailableSources: []string{"filesystem", "github"},
		CompletedSources: 2,
		TotalSources:     2,
		Location:         "multisearch://search?q=" + query,
	}
}
