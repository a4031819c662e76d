package domain

// SourceSetting is the enablement state of one source.
type SourceSetting struct {
	// ID identifies the source (e.g., "filesystem", "github").
	ID string

	// Enabled reports whether the source takes part in searches.
	Enabled bool
}

// Settings is a point-in-time snapshot of the user's search settings.
type Settings struct {
	// SortBy is the preferred result order.
	SortBy SortKey

	// Sources lists every known source in display order.
	Sources []SourceSetting
}

// DefaultSettings returns settings with no sources and the default sort.
// Sources are registered at startup or by the user.
func DefaultSettings() Settings {
	return Settings{
		SortBy: DefaultSortKey,
	}
}

// EnabledSources returns the IDs of enabled sources, preserving order.
// The list is derived on every call and never cached.
func (s Settings) EnabledSources() []string {
	enabled := make([]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		if src.Enabled {
			enabled = append(enabled, src.ID)
		}
	}
	return enabled
}

// Source returns the setting for id, if known.
func (s Settings) Source(id string) (SourceSetting, bool) {
	for _, src := range s.Sources {
		if src.ID == id {
			return src, true
		}
	}
	return SourceSetting{}, false
}
