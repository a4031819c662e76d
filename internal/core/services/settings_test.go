package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/multisearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/multisearch/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := service.Get()

	assert.Equal(t, domain.DefaultSortKey, settings.SortBy)
	assert.Empty(t, settings.Sources)
	assert.Empty(t, settings.EnabledSources())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("search.sort_by", "date")
	_ = store.Set("sources.order", []string{"github", "filesystem"})
	_ = store.Set("sources.github.enabled", true)

	settings := NewSettingsService(store).Get()

	assert.Equal(t, domain.SortByDate, settings.SortBy)
	assert.Equal(t, []domain.SourceSetting{
		{ID: "github", Enabled: true},
		{ID: "filesystem", Enabled: false},
	}, settings.Sources)
	assert.Equal(t, []string{"github"}, settings.EnabledSources())
}

func TestSettingsService_Get_InvalidSortReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("search.sort_by", "random")

	settings := NewSettingsService(store).Get()

	assert.Equal(t, domain.DefaultSortKey, settings.SortBy)
}

func TestSettingsService_Snapshot_IsFresh(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	before := service.Snapshot()
	_ = store.Set("sources.order", []string{"github"})
	_ = store.Set("sources.github.enabled", true)
	after := service.Snapshot()

	assert.Empty(t, before.EnabledSources())
	assert.Equal(t, []string{"github"}, after.EnabledSources())
}

func TestSettingsService_SetSortBy(t *testing.T) {
	tests := []struct {
		name    string
		key     domain.SortKey
		wantErr error
	}{
		{"relevance", domain.SortByRelevance, nil},
		{"date", domain.SortByDate, nil},
		{"title", domain.SortByTitle, nil},
		{"source", domain.SortBySource, nil},
		{"invalid", domain.SortKey("random"), domain.ErrInvalidSortKey},
		{"empty", domain.SortKey(""), domain.ErrInvalidSortKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.SetSortBy(tt.key)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, service.Get().SortBy)
		})
	}
}

func TestSettingsService_SetSortBy_UnchangedDoesNotNotify(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	calls := 0
	service.Subscribe(func() { calls++ })

	require.NoError(t, service.SetSortBy(domain.SortByRelevance))
	assert.Equal(t, 0, calls)

	require.NoError(t, service.SetSortBy(domain.SortByDate))
	assert.Equal(t, 1, calls)
}

func TestSettingsService_EnableSource_RegistersUnknown(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.EnableSource("github"))
	require.NoError(t, service.EnableSource("filesystem"))

	assert.Equal(t, []string{"github", "filesystem"}, service.Get().EnabledSources())
}

func TestSettingsService_EnableSource_AlreadyEnabledIsNoop(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, service.EnableSource("github"))

	calls := 0
	service.Subscribe(func() { calls++ })
	require.NoError(t, service.EnableSource("github"))

	assert.Equal(t, 0, calls)
}

func TestSettingsService_DisableSource(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, service.RegisterSources([]string{"filesystem", "github"}))

	require.NoError(t, service.DisableSource("filesystem"))

	settings := service.Get()
	assert.Equal(t, []string{"github"}, settings.EnabledSources())
	src, ok := settings.Source("filesystem")
	require.True(t, ok)
	assert.False(t, src.Enabled)
}

func TestSettingsService_DisableSource_Unknown(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.DisableSource("dropbox")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsService_InvalidSourceIDs(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	for _, id := range []string{"", "  ", "a.b", "has space", "tab\tid"} {
		assert.ErrorIs(t, service.EnableSource(id), domain.ErrInvalidInput, "id %q", id)
		assert.ErrorIs(t, service.DisableSource(id), domain.ErrInvalidInput, "id %q", id)
	}
	assert.ErrorIs(t, service.RegisterSources([]string{"ok", "bad.id"}), domain.ErrInvalidInput)
}

func TestSettingsService_RegisterSources_KeepsExistingEnablement(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, service.RegisterSources([]string{"filesystem"}))
	require.NoError(t, service.DisableSource("filesystem"))

	require.NoError(t, service.RegisterSources([]string{"filesystem", "github"}))

	settings := service.Get()
	assert.Equal(t, []string{"github"}, settings.EnabledSources())
	assert.Len(t, settings.Sources, 2)
}

func TestSettingsService_RegisterSources_NothingNewIsNoop(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, service.RegisterSources([]string{"github"}))

	calls := 0
	service.Subscribe(func() { calls++ })
	require.NoError(t, service.RegisterSources([]string{"github"}))

	assert.Equal(t, 0, calls)
}

func TestSettingsService_Subscribe_Unsubscribe(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	calls := 0
	unsubscribe := service.Subscribe(func() { calls++ })

	require.NoError(t, service.EnableSource("github"))
	unsubscribe()
	require.NoError(t, service.SetSortBy(domain.SortByTitle))

	// enabled flag and order are two writes
	assert.Equal(t, 2, calls)
}
