package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
)

var testEpoch = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced driven.Clock. Timer callbacks run
// synchronously inside Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) driven.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of armed timers.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// sequentialIDs returns an ID generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// openStore opens a document store over persister and waits for it to load.
func openStore(t *testing.T, persister *memory.Persister) *DocumentStore {
	t.Helper()
	store := NewDocumentStore(persister)
	store.Open(context.Background())
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, store.WaitReady(ctx))
	return store
}

// docWithDiary returns a document holding one entry whose diary is text.
func docWithDiary(date domain.DateKey, text string) *domain.JournalDoc {
	doc := domain.NewJournalDoc()
	entry := doc.EnsureEntry(date, testEpoch, func() string { return "entry-" + string(date) })
	entry.SetDiaryText(text, testEpoch, func() string { return "diary-" + string(date) })
	return doc
}

// assistantRequest is one call captured by blockingAssistant.
type assistantRequest struct {
	history []domain.Message
	text    string
	reply   chan domain.AssistantReply
}

// blockingAssistant hands every request to the test and waits for its reply.
type blockingAssistant struct {
	requests chan assistantRequest
}

func newBlockingAssistant() *blockingAssistant {
	return &blockingAssistant{requests: make(chan assistantRequest)}
}

func (a *blockingAssistant) SendMessage(
	ctx context.Context,
	history []domain.Message,
	text string,
) domain.AssistantReply {
	req := assistantRequest{history: history, text: text, reply: make(chan domain.AssistantReply, 1)}
	select {
	case a.requests <- req:
	case <-ctx.Done():
		return domain.AssistantReply{Error: ctx.Err().Error()}
	}
	select {
	case r := <-req.reply:
		return r
	case <-ctx.Done():
		return domain.AssistantReply{Error: ctx.Err().Error()}
	}
}

func (a *blockingAssistant) next(t *testing.T) assistantRequest {
	t.Helper()
	select {
	case req := <-a.requests:
		return req
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for assistant request")
		return assistantRequest{}
	}
}

// replyWith returns an assistant that always answers content.
func replyWith(content string) driven.Assistant {
	return driven.AssistantFunc(func(context.Context, []domain.Message, string) domain.AssistantReply {
		return domain.AssistantReply{Content: content, Success: true}
	})
}

// failWith returns an assistant that always fails with message.
func failWith(message string) driven.Assistant {
	return driven.AssistantFunc(func(context.Context, []domain.Message, string) domain.AssistantReply {
		return domain.AssistantReply{Error: message}
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}
