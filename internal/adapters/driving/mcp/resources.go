package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Daybook resources.
	uriScheme = "daybook://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "entries",
		Name:        "entries",
		Description: "Dates that have journal entries",
		MIMEType:    "application/json",
	}, s.handleEntriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entries/{date}",
		Name:        "entry",
		Description: "Diary text of one journal entry",
		MIMEType:    "text/plain",
	}, s.handleEntryResource)
}

// handleEntriesResource returns the sorted list of entry dates.
func (s *Server) handleEntriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	dates, err := s.ports.Journal.Dates()
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	names := make([]string, len(dates))
	for i, d := range dates {
		names[i] = d.String()
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling entries: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleEntryResource returns the diary text of one entry.
func (s *Server) handleEntryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	date, ok := extractDate(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.ports.Journal.Entry(date)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     entry.DiaryText(),
		}},
	}, nil
}

// extractDate extracts the date from a URI like daybook://entries/{date}.
func extractDate(uri string) (domain.DateKey, bool) {
	const prefix = uriScheme + "entries/"

	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}

	date, err := domain.ParseDateKey(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return "", false
	}
	return date, true
}
