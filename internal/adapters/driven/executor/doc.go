// Package executor implements driven.SearchExecutor by running each enabled
// source provider in its own goroutine and merging results incrementally.
//
// Progress is published from the worker goroutines, never from within a
// command, so callers may hold their own locks while issuing commands.
package executor
