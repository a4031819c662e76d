// Package domain defines the core business entities for multisearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Result: A single hit from one source
//   - SessionState: The coordinator-owned state of a search session
//   - Settings: Sort preference and source enablement snapshot
//   - CachedSearchRecord: The last persisted search
//   - Progress: Executor telemetry for the running search
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
