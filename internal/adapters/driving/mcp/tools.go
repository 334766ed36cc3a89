package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

// defaultListLimit caps list_entries when no limit is given.
const defaultListLimit = 31

// ListEntriesInput is the input schema for the list_entries tool.
type ListEntriesInput struct {
	From  string `json:"from,omitempty" jsonschema:"earliest date to include, YYYY-MM-DD"`
	To    string `json:"to,omitempty" jsonschema:"latest date to include, YYYY-MM-DD"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries to return, newest first (default 31)"`
}

// ListEntriesOutput is the output schema for the list_entries tool.
type ListEntriesOutput struct {
	Entries []EntrySummary `json:"entries"`
	Count   int            `json:"count"`
}

// EntrySummary describes one journal entry without its full text.
type EntrySummary struct {
	Date            string `json:"date"`
	Preview         string `json:"preview"`
	HasConversation bool   `json:"has_conversation"`
}

// ReadEntryInput is the input schema for the read_entry tool.
type ReadEntryInput struct {
	Date string `json:"date" jsonschema:"the entry date, YYYY-MM-DD"`
}

// ReadEntryOutput is the output schema for the read_entry tool.
type ReadEntryOutput struct {
	Date         string          `json:"date"`
	DiaryText    string          `json:"diary_text"`
	Conversation []MessageOutput `json:"conversation"`
	Place        string          `json:"place,omitempty"`
}

// MessageOutput is one conversation message.
type MessageOutput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List journal entries, newest first, with a short preview of each",
	}, s.handleListEntries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_entry",
		Description: "Read the diary text and assistant conversation for one day",
	}, s.handleReadEntry)
}

// handleListEntries handles the list_entries tool invocation.
func (s *Server) handleListEntries(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListEntriesInput,
) (*mcp.CallToolResult, ListEntriesOutput, error) {
	from, err := parseOptionalDate(input.From)
	if err != nil {
		return nil, ListEntriesOutput{}, err
	}
	to, err := parseOptionalDate(input.To)
	if err != nil {
		return nil, ListEntriesOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	dates, err := s.ports.Journal.Dates()
	if err != nil {
		return nil, ListEntriesOutput{}, fmt.Errorf("listing entries: %w", err)
	}

	output := ListEntriesOutput{Entries: []EntrySummary{}}
	for i := len(dates) - 1; i >= 0 && len(output.Entries) < limit; i-- {
		date := dates[i]
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		view, err := s.ports.Journal.View(date)
		if err != nil {
			return nil, ListEntriesOutput{}, fmt.Errorf("reading %s: %w", date, err)
		}
		output.Entries = append(output.Entries, EntrySummary{
			Date:            date.String(),
			Preview:         preview(view.DiaryText),
			HasConversation: view.HasConversation,
		})
	}
	output.Count = len(output.Entries)

	return nil, output, nil
}

// handleReadEntry handles the read_entry tool invocation.
func (s *Server) handleReadEntry(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReadEntryInput,
) (*mcp.CallToolResult, ReadEntryOutput, error) {
	date, err := domain.ParseDateKey(input.Date)
	if err != nil {
		return nil, ReadEntryOutput{}, err
	}

	entry, err := s.ports.Journal.Entry(date)
	if err != nil {
		return nil, ReadEntryOutput{}, fmt.Errorf("reading %s: %w", date, err)
	}

	return nil, entryOutput(date, entry), nil
}

func entryOutput(date domain.DateKey, entry *domain.JournalEntry) ReadEntryOutput {
	output := ReadEntryOutput{
		Date:         date.String(),
		DiaryText:    entry.DiaryText(),
		Conversation: []MessageOutput{},
	}
	if len(entry.Messages) > 1 {
		for _, msg := range entry.Messages[1:] {
			output.Conversation = append(output.Conversation, MessageOutput{
				Role:    msg.Role.String(),
				Content: msg.Content,
			})
		}
	}
	if entry.Position != nil {
		output.Place = entry.Position.Place
	}
	return output
}

func parseOptionalDate(s string) (domain.DateKey, error) {
	if s == "" {
		return "", nil
	}
	return domain.ParseDateKey(s)
}

// preview returns the first line of text, truncated to 80 runes.
func preview(text string) string {
	const maxRunes = 80
	for i, r := range text {
		if r == '\n' {
			text = text[:i]
			break
		}
	}
	runes := []rune(text)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes-3]) + "..."
	}
	return text
}
