package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

const (
	defaultLimit   = 10
	defaultTimeout = 30 * time.Second
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query          string `json:"query" jsonschema:"the search query to run across all enabled sources"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"how long to wait for sources to answer (default 30)"`
}

// SessionInput is the input schema for the session tool.
type SessionInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// ResetInput is the input schema for the reset tool.
type ResetInput struct{}

// SortInput is the input schema for the sort tool.
type SortInput struct {
	SortBy string `json:"sort_by" jsonschema:"one of relevance, date, title, source"`
}

// SessionOutput is the observable state of the search session.
type SessionOutput struct {
	Query            string            `json:"query"`
	Phase            string            `json:"phase"`
	SortBy           string            `json:"sort_by"`
	Loading          bool              `json:"loading"`
	Results          []ResultOutput    `json:"results"`
	Count            int               `json:"count"`
	AvailableSources []string          `json:"available_sources"`
	CompletedSources int               `json:"completed_sources"`
	TotalSources     int               `json:"total_sources"`
	Errors           map[string]string `json:"errors,omitempty"`
	Location         string            `json:"location"`
	Notice           string            `json:"notice,omitempty"`
}

// ResultOutput represents a single search result.
type ResultOutput struct {
	ID        string  `json:"id"`
	SourceID  string  `json:"source_id"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet,omitempty"`
	Score     float64 `json:"score"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search all enabled sources and wait for the merged results",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session",
		Description: "Show the current search session without running anything",
	}, s.handleSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Forget the current query and results",
	}, s.handleReset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sort",
		Description: "Change the result order without searching again",
	}, s.handleSort)
}

// handleSearch runs a query and waits for it to settle.
// A search that outlives the timeout returns the partial results.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SessionOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	session := s.ports.Session
	session.HandleSearch(input.Query)

	view := session.View()
	if view.Phase() == domain.PhaseAwaitingSources {
		out := newSessionOutput(view, input.Limit)
		out.Notice = "no sources are enabled; the search runs once one is enabled"
		return nil, out, nil
	}

	timeout := defaultTimeout
	if input.TimeoutSeconds > 0 {
		timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	view, err := session.Wait(waitCtx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotSettled) || ctx.Err() != nil {
			return nil, SessionOutput{}, err
		}
		out := newSessionOutput(view, input.Limit)
		out.Notice = fmt.Sprintf("still waiting for %d of %d sources", view.TotalSources-view.CompletedSources, view.TotalSources)
		return nil, out, nil
	}

	return nil, newSessionOutput(view, input.Limit), nil
}

// handleSession returns the current view.
func (s *Server) handleSession(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	return nil, newSessionOutput(s.ports.Session.View(), input.Limit), nil
}

// handleReset returns the session to idle.
func (s *Server) handleReset(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ResetInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	s.ports.Session.HandleReset()
	return nil, newSessionOutput(s.ports.Session.View(), 0), nil
}

// handleSort stores a new sort preference; the session reorders its results.
func (s *Server) handleSort(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SortInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	if s.ports.Settings == nil {
		return nil, SessionOutput{}, ErrMissingSettings
	}

	key, err := domain.ParseSortKey(input.SortBy)
	if err != nil {
		return nil, SessionOutput{}, fmt.Errorf("%w: %q", err, input.SortBy)
	}
	if err := s.ports.Settings.SetSortBy(key); err != nil {
		return nil, SessionOutput{}, fmt.Errorf("setting sort: %w", err)
	}

	return nil, newSessionOutput(s.ports.Session.View(), 0), nil
}

// newSessionOutput converts a view, keeping at most limit results.
// A limit of zero or less uses the default.
func newSessionOutput(view domain.SessionView, limit int) SessionOutput {
	if limit <= 0 {
		limit = defaultLimit
	}

	results := view.Results
	if len(results) > limit {
		results = results[:limit]
	}

	out := SessionOutput{
		Query:            view.Query,
		Phase:            string(view.Phase()),
		SortBy:           view.SortPreference.String(),
		Loading:          view.Loading,
		Results:          make([]ResultOutput, len(results)),
		Count:            len(view.Results),
		AvailableSources: view.AvailableSources,
		CompletedSources: view.CompletedSources,
		TotalSources:     view.TotalSources,
		Errors:           view.Errors,
		Location:         view.Location,
	}
	if out.AvailableSources == nil {
		out.AvailableSources = []string{}
	}

	for i := range results {
		out.Results[i] = newResultOutput(&results[i])
	}
	return out
}

func newResultOutput(r *domain.Result) ResultOutput {
	out := ResultOutput{
		ID:       r.ID,
		SourceID: r.SourceID,
		Title:    r.Title,
		URL:      r.URL,
		Snippet:  r.Snippet,
		Score:    r.Score,
	}
	if !r.UpdatedAt.IsZero() {
		out.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
