// Command multisearch searches several sources at once from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/multisearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/multisearch/internal/adapters/driven/executor"
	"github.com/custodia-labs/multisearch/internal/adapters/driven/navigation"
	"github.com/custodia-labs/multisearch/internal/adapters/driven/providers/filesystem"
	"github.com/custodia-labs/multisearch/internal/adapters/driven/providers/github"
	"github.com/custodia-labs/multisearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
	"github.com/custodia-labs/multisearch/internal/core/services"
	"github.com/custodia-labs/multisearch/internal/logger"
)

// Config keys read at startup.
const (
	keyFilesystemRoot = "providers.filesystem.root"
	keyGitHubToken    = "providers.github.token"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the services the CLI uses.
func bootstrap(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	providers, err := buildProviders(configStore)
	if err != nil {
		return nil, err
	}

	settings := services.NewSettingsService(configStore)
	ids := make([]string, len(providers))
	for i, p := range providers {
		ids[i] = p.ID()
	}
	if err := settings.RegisterSources(ids); err != nil {
		return nil, fmt.Errorf("registering sources: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening result cache: %w", err)
	}
	logger.Debug("config %s, cache %s", configStore.Path(), store.Path())

	openSession := func(query string) (driving.SessionCoordinator, func(), error) {
		var opts []navigation.Option
		if query != "" {
			opts = append(opts, navigation.WithLocation(navigation.Format(query)))
		}
		nav := navigation.New(configStore, opts...)

		ctx, cancel := context.WithCancel(context.Background())
		exec := executor.New(ctx, providers)
		coord := services.NewSessionCoordinator(settings, exec, store.ResultCache(), nav)

		return coord, func() {
			coord.Close()
			cancel()
			nav.Close()
		}, nil
	}

	return &cli.Services{
		Settings:    settings,
		OpenSession: openSession,
		Watch:       configStore.Watch,
		Close:       store.Close,
	}, nil
}

// buildProviders creates every source provider the binary ships with.
func buildProviders(config driven.ConfigStore) ([]driven.SourceProvider, error) {
	root := config.GetString(keyFilesystemRoot)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		root = wd
	}

	token := config.GetString(keyGitHubToken)
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	gh, err := github.New(token)
	if err != nil {
		return nil, fmt.Errorf("creating github provider: %w", err)
	}

	return []driven.SourceProvider{filesystem.New(root), gh}, nil
}
