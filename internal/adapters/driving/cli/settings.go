package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage search settings",
	Long: `View and change the sort order and which sources take part in searches.

Changes apply to running sessions as well: an open TUI picks them up
immediately.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSortCmd = &cobra.Command{
	Use:   "sort [key]",
	Short: "Set the result order",
	Long: `Set how results are ordered.

Available keys:
  relevance - Highest score first
  date      - Most recently updated first
  title     - Alphabetical by title
  source    - Grouped by source

Without a key you are asked to choose one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsSort,
}

var settingsEnableCmd = &cobra.Command{
	Use:   "enable <source>",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsEnable,
}

var settingsDisableCmd = &cobra.Command{
	Use:   "disable <source>",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsDisable,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSortCmd)
	settingsCmd.AddCommand(settingsEnableCmd)
	settingsCmd.AddCommand(settingsDisableCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", ErrNotConfigured)
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Sort: %s (%s)\n", settings.SortBy.Description(), settings.SortBy)
	cmd.Println()

	cmd.Println("[Sources]")
	if len(settings.Sources) == 0 {
		cmd.Println("  (none registered)")
	}
	for _, src := range settings.Sources {
		status := "disabled"
		if src.Enabled {
			status = "enabled"
		}
		cmd.Printf("  %-12s %s\n", src.ID, status)
	}

	return nil
}

func runSettingsSort(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	var (
		key domain.SortKey
		err error
	)
	if len(args) == 1 {
		key, err = domain.ParseSortKey(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
	} else {
		key = promptSortKey(cmd, bufio.NewReader(cmd.InOrStdin()), settingsService.Get().SortBy)
	}

	if err := settingsService.SetSortBy(key); err != nil {
		return fmt.Errorf("failed to set sort: %w", err)
	}
	cmd.Printf("Sort set to %s.\n", key.Description())
	return nil
}

// promptSortKey lists the sort keys and reads a numbered choice.
// An empty or invalid answer keeps current.
func promptSortKey(cmd *cobra.Command, reader *bufio.Reader, current domain.SortKey) domain.SortKey {
	keys := domain.AllSortKeys()
	defaultChoice := 1
	for i, k := range keys {
		if k == current {
			defaultChoice = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, k.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultChoice)

	return keys[parseChoice(readLine(reader), len(keys), defaultChoice)-1]
}

func runSettingsEnable(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.EnableSource(args[0]); err != nil {
		return fmt.Errorf("failed to enable %s: %w", args[0], err)
	}
	cmd.Printf("Enabled %s.\n", args[0])
	return nil
}

func runSettingsDisable(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.DisableSource(args[0]); err != nil {
		return fmt.Errorf("failed to disable %s: %w", args[0], err)
	}
	cmd.Printf("Disabled %s.\n", args[0])
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
