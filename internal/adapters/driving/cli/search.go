package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchTimeout time.Duration
	searchRefresh bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all enabled sources",
	Long: `Searches every enabled source and prints the merged results.

The last completed search is cached. When the query matches it, the cached
results are shown without contacting any source; pass --refresh to search
again. Without a query the previous search is resumed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results to print (0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the session as JSON")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "how long to wait for sources")
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false, "search the sources even when cached results exist")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = strings.TrimSpace(args[0])
		if query == "" {
			return fmt.Errorf("%w: query is blank", domain.ErrInvalidInput)
		}
	}

	session, release, err := requireSession(query)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	session.Mount(ctx)

	// A cache miss already started a search on mount.
	if view := session.View(); searchRefresh && view.Query != "" && !view.Loading {
		session.HandleSearch(view.Query)
	}

	switch session.View().Phase() {
	case domain.PhaseIdle:
		cmd.Println("Nothing to search. Pass a query to start.")
		return nil
	case domain.PhaseAwaitingSources:
		return fmt.Errorf("no sources enabled; run 'multisearch settings enable <source>'")
	case domain.PhaseSearching, domain.PhaseSettled:
	}

	if isTerminal(cmd.OutOrStdout()) && !searchJSON {
		unsubscribe := session.Subscribe(progressPrinter(cmd.ErrOrStderr()))
		defer unsubscribe()
	}

	view, err := session.Wait(ctx)
	if err != nil {
		return fmt.Errorf("search %q: %w", view.Query, err)
	}

	view.Results = limitResults(view.Results, searchLimit)
	if searchJSON {
		return outputSearchJSON(cmd, view)
	}
	return outputSearchTable(cmd, view)
}

func limitResults(results []domain.Result, limit int) []domain.Result {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// progressPrinter redraws a one-line progress indicator on w.
func progressPrinter(w io.Writer) func(domain.SessionView) {
	return func(v domain.SessionView) {
		if v.Loading {
			fmt.Fprintf(w, "\rsearching %d/%d sources, %d results", v.CompletedSources, v.TotalSources, len(v.Results))
			return
		}
		fmt.Fprint(w, "\r\033[K")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputSearchJSON(cmd *cobra.Command, view domain.SessionView) error {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, view domain.SessionView) error {
	cmd.Printf("Results for %q (sorted by %s, %d/%d sources)\n",
		view.Query, view.SortPreference.Description(), len(view.AvailableSources), view.TotalSources)
	cmd.Println()

	if len(view.Results) == 0 {
		cmd.Println("No results found.")
	}
	for i := range view.Results {
		r := &view.Results[i]
		title := r.Title
		if title == "" {
			title = r.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, r.Score)
		cmd.Printf("      %s  %s\n", r.SourceID, r.URL)
		if r.Snippet != "" {
			cmd.Printf("      %s\n", r.Snippet)
		}
		cmd.Println()
	}

	if len(view.Errors) > 0 {
		ids := make([]string, 0, len(view.Errors))
		for id := range view.Errors {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		cmd.Println("Unavailable sources:")
		for _, id := range ids {
			cmd.Printf("  %s: %s\n", id, view.Errors[id])
		}
		cmd.Println()
	}

	cmd.Printf("Location: %s\n", view.Location)
	return nil
}
