// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Session Collaborators
//
// The session coordinator reaches every collaborator through these ports:
//
//   - SettingsStore: Sort preference and source enablement, with change notification
//   - SearchExecutor: Asynchronous multi-source search with progress telemetry
//   - ResultCache: Single-slot persistence of the last search
//   - Navigator: Shareable location carrying the query
//
// # Supporting Interfaces
//
//   - SourceProvider: One searchable source, used by the executor
//   - ConfigStore: Key-value application configuration backing the settings service
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or provider package
package driven
