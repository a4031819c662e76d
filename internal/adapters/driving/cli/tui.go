package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui"
)

// runProgram runs a bubbletea model. Tests replace it to avoid a terminal.
var runProgram = func(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [query]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for multisearch.

Results stream in as each source answers. Edits to the settings file made
while the TUI is open are applied immediately.

Controls:
  Enter   - Search
  Ctrl+S  - Cycle sort order
  Ctrl+R  - Reset
  ↑/↓     - Navigate results
  Esc     - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	session, release, err := requireSession(query)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Follow settings edits made outside the TUI for as long as it runs.
	if watchConfig != nil {
		go func() {
			if werr := watchConfig(ctx); werr != nil && !errors.Is(werr, context.Canceled) {
				fmt.Fprintf(os.Stderr, "settings watcher stopped: %v\n", werr)
			}
		}()
	}

	app, err := tui.NewApp(&tui.Ports{
		Session:  session,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := runProgram(ctx, app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
