// Package cli provides the multisearch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
	"github.com/custodia-labs/multisearch/internal/logger"
)

var (
	version   = "dev"
	verbose   bool
	configDir string
)

// annotationNoServices marks commands that run without bootstrapping services.
const annotationNoServices = "multisearch/no-services"

// ErrNotConfigured is returned when a command needs services that were never wired.
var ErrNotConfigured = errors.New("services not configured")

// SessionOpener starts a search session. A non-empty query replaces the
// persisted location; an empty one resumes it. The returned func releases
// the session.
type SessionOpener func(query string) (driving.SessionCoordinator, func(), error)

// Services holds everything the commands drive.
type Services struct {
	Settings    driving.SettingsService
	OpenSession SessionOpener

	// Watch follows external edits to the settings file until ctx is done.
	Watch func(ctx context.Context) error

	// Close releases shared resources such as the cache database.
	Close func() error
}

// Bootstrap builds the services for a config directory.
type Bootstrap func(configDir string) (*Services, error)

var (
	settingsService driving.SettingsService
	openSession     SessionOpener
	watchConfig     func(ctx context.Context) error
	closeServices   func() error
	bootstrap       Bootstrap
)

var rootCmd = &cobra.Command{
	Use:   "multisearch",
	Short: "Search several sources from one place",
	Long: `multisearch runs one query across every enabled source, merges the
results and keeps them sorted by your preference.

The last search is remembered: running a command without a query resumes
it, served from the local cache when possible.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.multisearch)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets how services are built on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices wires the services used by all commands.
func SetServices(s *Services) {
	if s == nil {
		settingsService, openSession, watchConfig, closeServices = nil, nil, nil, nil
		return
	}
	settingsService = s.Settings
	openSession = s.OpenSession
	watchConfig = s.Watch
	closeServices = s.Close
}

// prepare applies global flags and bootstraps services for commands that need them.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, ok := cmd.Annotations[annotationNoServices]; ok {
		return nil
	}
	if settingsService != nil || bootstrap == nil {
		return nil
	}

	services, err := bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("starting multisearch: %w", err)
	}
	SetServices(services)
	return nil
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", cerr)
		}
	}
	return err
}

// requireSession opens a session or reports that none is configured.
func requireSession(query string) (driving.SessionCoordinator, func(), error) {
	if openSession == nil {
		return nil, nil, fmt.Errorf("session: %w", ErrNotConfigured)
	}
	session, release, err := openSession(query)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session: %w", err)
	}
	if release == nil {
		release = func() {}
	}
	return session, release, nil
}
