package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for multisearch resources.
	uriScheme = "multisearch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "The current search session with every result",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Sort preference and source enablement",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/results",
		Name:        "source-results",
		Description: "Results of the current search from a single source",
		MIMEType:    "application/json",
	}, s.handleSourceResultsResource)
}

// handleSessionResource returns the full session view.
func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	view := s.ports.Session.View()
	return jsonResource(req.Params.URI, newSessionOutput(view, len(view.Results)))
}

// handleSettingsResource returns the current settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings := s.ports.Settings.Get()

	type sourceInfo struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}
	type settingsInfo struct {
		SortBy  string       `json:"sort_by"`
		Sources []sourceInfo `json:"sources"`
	}

	info := settingsInfo{
		SortBy:  settings.SortBy.String(),
		Sources: make([]sourceInfo, len(settings.Sources)),
	}
	for i, src := range settings.Sources {
		info.Sources[i] = sourceInfo{ID: src.ID, Enabled: src.Enabled}
	}

	return jsonResource(req.Params.URI, info)
}

// handleSourceResultsResource returns the current results of one source.
func (s *Server) handleSourceResultsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sourceID := extractSourceID(req.Params.URI)
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view := s.ports.Session.View()
	results := make([]ResultOutput, 0)
	for i := range view.Results {
		if view.Results[i].SourceID == sourceID {
			results = append(results, newResultOutput(&view.Results[i]))
		}
	}
	if len(results) == 0 && !hasSource(view, sourceID) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, results)
}

func hasSource(view domain.SessionView, id string) bool {
	for _, src := range view.AvailableSources {
		if src == id {
			return true
		}
	}
	_, failed := view.Errors[id]
	return failed
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceID extracts the source ID from a URI like multisearch://sources/{sourceId}/results.
func extractSourceID(uri string) string {
	const prefix = uriScheme + "sources/"
	const suffix = "/results"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
