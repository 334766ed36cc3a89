// Package mcp provides an MCP (Model Context Protocol) server adapter for Daybook.
// It lets AI assistants like Claude read the local journal.
package mcp

import "errors"

// ErrMissingJournalService is returned when the journal service is not provided.
var ErrMissingJournalService = errors.New("mcp: journal service is required")
