// Package logger provides verbose logging for multisearch.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the search session.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if prefix != "" {
		fmt.Fprintf(output, "[%s] %s: %s\n", level, prefix, fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write("WARN", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Scoped prefixes every message with a fixed scope, e.g. a session ID.
type Scoped struct {
	prefix string
}

// Scope returns a logger whose messages are prefixed with prefix.
func Scope(prefix string) *Scoped {
	return &Scoped{prefix: prefix}
}

// Debug prints a scoped message if verbose mode is enabled.
func (s *Scoped) Debug(format string, args ...any) {
	write("DEBUG", s.prefix, format, args...)
}

// Info prints a scoped message if verbose mode is enabled.
func (s *Scoped) Info(format string, args ...any) {
	write("INFO", s.prefix, format, args...)
}

// Warn prints a scoped message if verbose mode is enabled.
func (s *Scoped) Warn(format string, args ...any) {
	write("WARN", s.prefix, format, args...)
}
