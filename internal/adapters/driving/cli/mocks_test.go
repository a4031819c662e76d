package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// mockSession implements driving.SessionCoordinator with a scripted view.
type mockSession struct {
	mu       sync.Mutex
	view     domain.SessionView
	waitErr  error
	mounted  int
	searches []string
	resets   int
	closed   bool

	// onMount replaces the view when the session is mounted.
	onMount func(*domain.SessionView)
}

var _ driving.SessionCoordinator = (*mockSession)(nil)

func (m *mockSession) Mount(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted++
	if m.onMount != nil && m.mounted == 1 {
		m.onMount(&m.view)
	}
}

func (m *mockSession) HandleSearch(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, query)
	m.view.Query = query
	m.view.HasSearched = true
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

func (m *mockSession) Wait(context.Context) (domain.SessionView, error) {
	return m.View(), m.waitErr
}

func (m *mockSession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// mockSettings implements driving.SettingsService in memory.
type mockSettings struct {
	settings domain.Settings
	err      error
}

var _ driving.SettingsService = (*mockSettings)(nil)

func (m *mockSettings) Get() domain.Settings {
	return m.settings
}

func (m *mockSettings) SetSortBy(key domain.SortKey) error {
	if m.err != nil {
		return m.err
	}
	if !key.IsValid() {
		return domain.ErrInvalidSortKey
	}
	m.settings.SortBy = key
	return nil
}

func (m *mockSettings) EnableSource(id string) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.settings.Sources {
		if m.settings.Sources[i].ID == id {
			m.settings.Sources[i].Enabled = true
			return nil
		}
	}
	m.settings.Sources = append(m.settings.Sources, domain.SourceSetting{ID: id, Enabled: true})
	return nil
}

func (m *mockSettings) DisableSource(id string) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.settings.Sources {
		if m.settings.Sources[i].ID == id {
			m.settings.Sources[i].Enabled = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockSettings) RegisterSources(ids []string) error {
	for _, id := range ids {
		if _, ok := m.settings.Source(id); !ok {
			m.settings.Sources = append(m.settings.Sources, domain.SourceSetting{ID: id, Enabled: true})
		}
	}
	return nil
}

// testServices records how commands used the wired services.
type testServices struct {
	session  *mockSession
	settings *mockSettings
	queries  []string
	released int
}

// setupTestServices wires mocks into the command globals and returns a
// cleanup func restoring the previous wiring.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		session: &mockSession{view: domain.SessionView{
			SortPreference: domain.SortByRelevance,
			Location:       "multisearch://search",
		}},
		settings: &mockSettings{settings: domain.Settings{
			SortBy:  domain.SortByRelevance,
			Sources: []domain.SourceSetting{{ID: "filesystem", Enabled: true}},
		}},
	}

	prevSettings, prevOpen, prevWatch, prevClose, prevBootstrap :=
		settingsService, openSession, watchConfig, closeServices, bootstrap

	SetServices(&Services{
		Settings: ts.settings,
		OpenSession: func(query string) (driving.SessionCoordinator, func(), error) {
			ts.queries = append(ts.queries, query)
			return ts.session, func() { ts.released++ }, nil
		},
	})
	bootstrap = nil

	return ts, func() {
		settingsService, openSession, watchConfig, closeServices, bootstrap =
			prevSettings, prevOpen, prevWatch, prevClose, prevBootstrap
	}
}

// settledView returns a finished search with two results.
func settledView(query string) domain.SessionView {
	return domain.SessionView{
		Query:          query,
		HasSearched:    true,
		SortPreference: domain.SortByRelevance,
		Results: []domain.Result{
			{ID: "1", SourceID: "filesystem", Title: "notes.md", URL: "/tmp/notes.md", Snippet: "go notes", Score: 2},
			{ID: "2", SourceID: "github", Title: "org/repo#1 Go issue", URL: "https://github.com/org/repo/issues/1", Score: 1},
		},
		AvailableSources: []string{"filesystem", "github"},
		CompletedSources: 2,
		TotalSources:     2,
		Location:         "multisearch://search?q=" + query,
	}
}
