package domain

import (
	"fmt"
	"time"
)

// Position is a geolocation snapshot attached to an entry.
// Capture and reverse geocoding happen outside the core.
type Position struct {
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	Place      string
	CapturedAt time.Time
}

// Validate checks the coordinates are within range.
func (p Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidInput, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidInput, p.Longitude)
	}
	if p.Accuracy < 0 {
		return fmt.Errorf("%w: negative accuracy", ErrInvalidInput)
	}
	return nil
}

// JournalEntry is one calendar day's record.
//
// Messages[0], when present and of role user, is the diary text for the day and is
// owned by the autosave path. Everything after it is the conversation, owned by the
// conversation path. An entry with no messages has no diary text and no conversation,
// but may still exist (for example, created for a position capture only).
type JournalEntry struct {
	ID        string
	Date      DateKey
	Messages  []Message
	Position  *Position
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJournalEntry creates an empty entry for date.
func NewJournalEntry(id string, date DateKey, now time.Time) *JournalEntry {
	return &JournalEntry{
		ID:        id,
		Date:      date,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DiaryText returns the content of the diary message, or "" if there is none.
func (e *JournalEntry) DiaryText() string {
	if e == nil || len(e.Messages) == 0 || e.Messages[0].Role != RoleUser {
		return ""
	}
	return e.Messages[0].Content
}

// HasContent reports whether the entry holds any messages.
func (e *JournalEntry) HasContent() bool {
	return e != nil && len(e.Messages) > 0
}

// SetDiaryText updates messages[0] in place, or inserts a new user message at the
// front when the entry has no diary message yet. newID is only called on insert.
func (e *JournalEntry) SetDiaryText(content string, now time.Time, newID func() string) {
	if len(e.Messages) > 0 && e.Messages[0].Role == RoleUser {
		e.Messages[0].Content = content
	} else {
		diary := Message{ID: newID(), Role: RoleUser, Content: content, CreatedAt: now}
		e.Messages = append([]Message{diary}, e.Messages...)
	}
	e.UpdatedAt = now
}

// Clone returns a deep copy of the entry.
func (e *JournalEntry) Clone() *JournalEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Messages = CloneMessages(e.Messages)
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	if e.Position != nil {
		p := *e.Position
		c.Position = &p
	}
	return &c
}

// Equal reports whether two entries hold the same logical content.
func (e *JournalEntry) Equal(o *JournalEntry) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.ID != o.ID || e.Date != o.Date ||
		!e.CreatedAt.Equal(o.CreatedAt) || !e.UpdatedAt.Equal(o.UpdatedAt) {
		return false
	}
	if (e.Position == nil) != (o.Position == nil) {
		return false
	}
	if e.Position != nil {
		p, q := e.Position, o.Position
		if p.Latitude != q.Latitude || p.Longitude != q.Longitude || p.Accuracy != q.Accuracy ||
			p.Place != q.Place || !p.CapturedAt.Equal(q.CapturedAt) {
			return false
		}
	}
	return MessagesEqual(e.Messages, o.Messages)
}

// EntryView is an entry split into its two user-facing views.
type EntryView struct {
	// DiaryText is the content of the first message, or "".
	DiaryText string

	// Conversation is every message after the first.
	Conversation []Message

	// HasConversation is true when Conversation holds an assistant reply.
	HasConversation bool
}
