package mcp

import (
	"github.com/custodia-labs/daybook/internal/core/domain"
)

// mockJournalService is a mock implementation of driving.JournalService.
type mockJournalService struct {
	entries map[domain.DateKey]*domain.JournalEntry
	err     error
}

func newMockJournal(entries ...*domain.JournalEntry) *mockJournalService {
	m := &mockJournalService{entries: map[domain.DateKey]*domain.JournalEntry{}}
	for _, e := range entries {
		m.entries[e.Date] = e
	}
	return m
}

func (m *mockJournalService) Today() domain.DateKey {
	return domain.MustParseDateKey("2024-03-15")
}

func (m *mockJournalService) Entry(date domain.DateKey) (*domain.JournalEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	entry, ok := m.entries[date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func (m *mockJournalService) View(date domain.DateKey) (domain.EntryView, error) {
	if m.err != nil {
		return domain.EntryView{}, m.err
	}
	entry := m.entries[date]
	if entry == nil || len(entry.Messages) == 0 {
		return domain.EntryView{}, nil
	}
	conv := entry.Messages[1:]
	return domain.EntryView{
		DiaryText:       entry.DiaryText(),
		Conversation:    conv,
		HasConversation: domain.HasAssistantMessage(conv),
	}, nil
}

func (m *mockJournalService) Dates() ([]domain.DateKey, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc := domain.NewJournalDoc()
	for date, entry := range m.entries {
		doc.Entries[date] = entry
	}
	return doc.Dates(), nil
}

func (m *mockJournalService) RecordPosition(_ domain.DateKey, _ domain.Position) error {
	return m.err
}

// entry builds a journal entry with a diary message followed by alternating
// assistant and user turns.
func entry(date, diary string, turns ...string) *domain.JournalEntry {
	e := &domain.JournalEntry{ID: "entry-" + date, Date: domain.MustParseDateKey(date)}
	if diary != "" || len(turns) > 0 {
		e.Messages = append(e.Messages, domain.Message{ID: date + "-0", Role: domain.RoleUser, Content: diary})
	}
	for i, text := range turns {
		role := domain.RoleAssistant
		if i%2 == 1 {
			role = domain.RoleUser
		}
		e.Messages = append(e.Messages, domain.Message{ID: date + "-" + string(rune('a'+i)), Role: role, Content: text})
	}
	return e
}
