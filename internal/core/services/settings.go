package services

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// Ensure SettingsService implements both the driving and driven interfaces.
var (
	_ driving.SettingsService = (*SettingsService)(nil)
	_ driven.SettingsStore    = (*SettingsService)(nil)
)

// Config keys for settings storage.
const (
	keySortBy      = "search.sort_by"
	keySourceOrder = "sources.order"
)

// sourceEnabledKey returns the config key holding a source's enablement.
func sourceEnabledKey(id string) string {
	return "sources." + id + ".enabled"
}

// SettingsService manages search settings on top of a ConfigStore.
// It is the settings store the session coordinator reads and subscribes to.
type SettingsService struct {
	configStore driven.ConfigStore

	// mu serialises read-modify-write sequences.
	mu sync.Mutex
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves the current settings.
func (s *SettingsService) Get() domain.Settings {
	return s.Snapshot()
}

// Snapshot builds the settings from the config store on every call.
func (s *SettingsService) Snapshot() domain.Settings {
	settings := domain.DefaultSettings()

	if key := domain.SortKey(s.configStore.GetString(keySortBy)); key.IsValid() {
		settings.SortBy = key
	}

	for _, id := range s.configStore.GetStringSlice(keySourceOrder) {
		settings.Sources = append(settings.Sources, domain.SourceSetting{
			ID:      id,
			Enabled: s.configStore.GetBool(sourceEnabledKey(id)),
		})
	}

	return settings
}

// Subscribe registers fn to be called after any settings change.
func (s *SettingsService) Subscribe(fn func()) func() {
	return s.configStore.Subscribe(fn)
}

// SetSortBy updates the sort preference. Setting the current value is a no-op.
func (s *SettingsService) SetSortBy(key domain.SortKey) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSortKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Snapshot().SortBy == key {
		return nil
	}
	if err := s.configStore.Set(keySortBy, key.String()); err != nil {
		return fmt.Errorf("save sort preference: %w", err)
	}
	return nil
}

// EnableSource enables id, registering it if unknown.
func (s *SettingsService) EnableSource(id string) error {
	return s.setSourceEnabled(id, true, true)
}

// DisableSource disables a known source.
func (s *SettingsService) DisableSource(id string) error {
	return s.setSourceEnabled(id, false, false)
}

// RegisterSources adds unknown ids as enabled sources.
// Sources already present keep their enablement.
func (s *SettingsService) RegisterSources(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.configStore.GetStringSlice(keySourceOrder)
	added := false
	for _, id := range ids {
		if err := validateSourceID(id); err != nil {
			return err
		}
		if slices.Contains(order, id) {
			continue
		}
		if err := s.configStore.Set(sourceEnabledKey(id), true); err != nil {
			return fmt.Errorf("save source %s: %w", id, err)
		}
		order = append(order, id)
		added = true
	}

	if !added {
		return nil
	}
	if err := s.configStore.Set(keySourceOrder, order); err != nil {
		return fmt.Errorf("save source order: %w", err)
	}
	return nil
}

func (s *SettingsService) setSourceEnabled(id string, enabled, register bool) error {
	if err := validateSourceID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.configStore.GetStringSlice(keySourceOrder)
	known := slices.Contains(order, id)
	if !known && !register {
		return fmt.Errorf("source %s: %w", id, domain.ErrNotFound)
	}
	if known && s.configStore.GetBool(sourceEnabledKey(id)) == enabled {
		return nil
	}

	// Enablement is written before the order so a source never appears
	// in a snapshot with a stale flag.
	if err := s.configStore.Set(sourceEnabledKey(id), enabled); err != nil {
		return fmt.Errorf("save source %s: %w", id, err)
	}
	if !known {
		if err := s.configStore.Set(keySourceOrder, append(order, id)); err != nil {
			return fmt.Errorf("save source order: %w", err)
		}
	}
	return nil
}

func validateSourceID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, ". \t") {
		return fmt.Errorf("%w: source id %q", domain.ErrInvalidInput, id)
	}
	return nil
}
