// Package mcp provides an MCP (Model Context Protocol) server adapter for multisearch.
// It lets AI assistants drive a search session: search, reset, change the
// sort order and read the merged results.
package mcp

import "errors"

var (
	// ErrMissingSession is returned when the session coordinator is not provided.
	ErrMissingSession = errors.New("mcp: session coordinator is required")

	// ErrMissingSettings is returned by tools that need the settings service
	// when none was provided.
	ErrMissingSettings = errors.New("mcp: settings service is required")
)
