package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDate indicates a string that is not a calendar-valid YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date")

	// Document Store Errors.

	// ErrDocumentLoading indicates the journal document has not finished loading.
	// Writers should skip the write rather than treat this as fatal.
	ErrDocumentLoading = errors.New("document is still loading")

	// ErrDocumentUnavailable indicates the journal document failed to load.
	ErrDocumentUnavailable = errors.New("document unavailable")

	// ErrStoreClosed indicates the document store has been closed.
	ErrStoreClosed = errors.New("document store closed")

	// Conversation Errors.

	// ErrEmptyMessage indicates a message with no non-whitespace content.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageNotFound indicates no message exists with the given ID.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotUserMessage indicates an edit was attempted on a non-user message.
	ErrNotUserMessage = errors.New("only user messages can be edited")

	// ErrProviderFailed indicates the assistant provider returned a failure.
	ErrProviderFailed = errors.New("assistant request failed")

	// Provider Errors.

	// ErrUnsupportedProvider indicates an unknown AI provider discriminator.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the local request budget for the assistant was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
