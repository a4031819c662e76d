package driving

import "github.com/custodia-labs/multisearch/internal/core/domain"

// SettingsService manages search settings.
type SettingsService interface {
	// Get retrieves the current settings.
	Get() domain.Settings

	// SetSortBy updates the sort preference.
	SetSortBy(key domain.SortKey) error

	// EnableSource enables id, registering it if unknown.
	EnableSource(id string) error

	// DisableSource disables a known source.
	DisableSource(id string) error

	// RegisterSources adds any unknown ids as enabled sources.
	// Existing sources keep their enablement.
	RegisterSources(ids []string) error
}
