// Package services implements the driving port interfaces.
//
// SessionCoordinator owns one search session: it restores the session from
// its shareable location and the result cache, issues searches through the
// executor, and reconciles with settings changes. SettingsService persists
// the sort preference and source enablement in the config store.
package services
