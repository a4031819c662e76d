// Package driving defines what the CLI, TUI and MCP adapters can ask of the core.
//
// SessionCoordinator drives one search session; SettingsService edits the
// sort preference and which sources take part. Implementations live in
// internal/core/services.
package driving
