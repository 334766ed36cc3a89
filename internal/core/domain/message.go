package domain

import (
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

// Message roles.
const (
	// RoleUser is a message written by the diary owner.
	RoleUser Role = "user"

	// RoleAssistant is a reply from the AI assistant.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is a single entry in a journal entry's ordered message list.
// Messages are immutable once created, except for in-place content edits
// to the diary text made by the autosave path.
type Message struct {
	// ID is unique within an entry and time-ordered.
	ID string

	// Role is the author of the message.
	Role Role

	// Content is the message text.
	Content string

	// CreatedAt is when the message was created.
	CreatedAt time.Time
}

// IsBlank reports whether text has no non-whitespace content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// CloneMessages returns a copy of msgs that shares no backing array.
// A nil input yields nil.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// SameMessageIDs reports whether a and b hold the same message IDs in the same order.
func SameMessageIDs(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// HasAssistantMessage reports whether msgs contains at least one assistant reply.
func HasAssistantMessage(msgs []Message) bool {
	for i := range msgs {
		if msgs[i].Role == RoleAssistant {
			return true
		}
	}
	return false
}

// AssistantReply is the result of one assistant exchange.
// Failures are values: Success is false and Error carries the provider's message.
type AssistantReply struct {
	Content string
	Success bool
	Error   string
}

// MessagesEqual reports whether a and b hold identical messages in the same order.
func MessagesEqual(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Role != y.Role || x.Content != y.Content || !x.CreatedAt.Equal(y.CreatedAt) {
			return false
		}
	}
	return true
}
