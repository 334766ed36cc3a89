package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
)

// Ensure Conversation implements the interface.
var _ driving.Conversation = (*Conversation)(nil)

// defaultProviderError is reported when a provider fails without a message.
const defaultProviderError = "unknown error"

// ConversationOptions configures a Conversation.
type ConversationOptions struct {
	// Clock stamps message creation times. Defaults to SystemClock.
	Clock driven.Clock

	// NewID generates message IDs. Defaults to NewID.
	NewID func() string
}

// Conversation manages the exchange with the assistant for one conversation key
// (a date).
//
// The message list is an accumulator updated synchronously under the lock at
// call time. A second Send issued before the first resolves therefore sends
// the first one's optimistic user message as history, and each resolution
// appends to (or removes from) the current list instead of a stale copy.
type Conversation struct {
	assistant driven.Assistant
	clock     driven.Clock
	newID     func() string

	mu       sync.Mutex
	key      string
	initial  []domain.Message
	messages []domain.Message
	inflight int
	epoch    uint64
	err      string
	seq      uint64
	subs     map[int]func(driving.ConversationState)
	nextSub  int

	notifyMu     sync.Mutex
	lastNotified uint64
}

// NewConversation creates an engine bound to key, starting from initial.
// assistant may be nil, in which case Send reports domain.ErrLLMUnavailable.
func NewConversation(
	assistant driven.Assistant,
	key string,
	initial []domain.Message,
	opts ConversationOptions,
) *Conversation {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	return &Conversation{
		assistant: assistant,
		clock:     opts.Clock,
		newID:     opts.NewID,
		key:       key,
		initial:   domain.CloneMessages(initial),
		messages:  cloneOrEmpty(initial),
		subs:      make(map[int]func(driving.ConversationState)),
	}
}

// Send appends text as a user message and asks the assistant to reply.
//
// The user message is visible to Snapshot before the provider is called. On
// failure exactly that message is removed again and Error is set. Send blocks
// until the provider resolves.
func (c *Conversation) Send(ctx context.Context, text string) error {
	if domain.IsBlank(text) {
		return domain.ErrEmptyMessage
	}

	c.mu.Lock()
	assistant := c.assistant
	if assistant == nil {
		c.mu.Unlock()
		return domain.ErrLLMUnavailable
	}
	history := domain.CloneMessages(c.messages)
	userMsg := c.newMessageLocked(domain.RoleUser, text)
	c.messages = append(domain.CloneMessages(c.messages), userMsg)
	c.inflight++
	epoch := c.epoch
	state, seq := c.stateLocked()
	c.mu.Unlock()

	c.notify(state, seq)
	return c.exchange(ctx, assistant, epoch, userMsg.ID, history, text)
}

// EditAndResend replaces the user message messageID with text, discards every
// message after it, and asks again using only the earlier messages as history.
func (c *Conversation) EditAndResend(ctx context.Context, messageID, text string) error {
	if domain.IsBlank(text) {
		return domain.ErrEmptyMessage
	}

	c.mu.Lock()
	assistant := c.assistant
	if assistant == nil {
		c.mu.Unlock()
		return domain.ErrLLMUnavailable
	}
	idx := indexOfMessage(c.messages, messageID)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrMessageNotFound, messageID)
	}
	if c.messages[idx].Role != domain.RoleUser {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s is a %s message", domain.ErrNotUserMessage, messageID, c.messages[idx].Role)
	}

	history := domain.CloneMessages(c.messages[:idx])
	edited := c.newMessageLocked(domain.RoleUser, text)
	c.messages = append(domain.CloneMessages(history), edited)
	c.inflight++
	epoch := c.epoch
	state, seq := c.stateLocked()
	c.mu.Unlock()

	c.notify(state, seq)
	return c.exchange(ctx, assistant, epoch, edited.ID, history, text)
}

// exchange calls the provider and folds the reply into the current state.
func (c *Conversation) exchange(
	ctx context.Context,
	assistant driven.Assistant,
	epoch uint64,
	userID string,
	history []domain.Message,
	text string,
) error {
	reply := assistant.SendMessage(ctx, history, text)

	c.mu.Lock()
	var errText string
	if reply.Success {
		// Appended to whatever list is current, even if Load moved to another
		// key while the request was in flight.
		c.messages = append(domain.CloneMessages(c.messages), c.newMessageLocked(domain.RoleAssistant, reply.Content))
		c.err = ""
	} else {
		errText = reply.Error
		if errText == "" {
			errText = defaultProviderError
		}
		c.messages = removeMessage(c.messages, userID)
		c.err = errText
	}
	if epoch == c.epoch && c.inflight > 0 {
		c.inflight--
	}
	state, seq := c.stateLocked()
	c.mu.Unlock()

	c.notify(state, seq)
	if !reply.Success {
		return fmt.Errorf("%w: %s", domain.ErrProviderFailed, errText)
	}
	return nil
}

// Load binds the engine to key and initial. State is reset when the key
// changes or initial holds different messages than both the previous initial
// list and the current list. Requests already in flight still resolve into
// the new state.
func (c *Conversation) Load(key string, initial []domain.Message) {
	c.mu.Lock()
	if key == c.key && (domain.SameMessageIDs(initial, c.initial) || domain.SameMessageIDs(initial, c.messages)) {
		c.initial = domain.CloneMessages(initial)
		c.mu.Unlock()
		return
	}
	c.key = key
	c.initial = domain.CloneMessages(initial)
	c.resetLocked(initial)
	state, seq := c.stateLocked()
	c.mu.Unlock()

	c.notify(state, seq)
}

// Reset clears messages, error and loading state for the current key.
func (c *Conversation) Reset() {
	c.mu.Lock()
	c.initial = nil
	c.resetLocked(nil)
	state, seq := c.stateLocked()
	c.mu.Unlock()

	c.notify(state, seq)
}

// Snapshot returns the current state.
func (c *Conversation) Snapshot() driving.ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, _ := c.stateLocked()
	return state
}

// Messages returns a copy of the current message list.
func (c *Conversation) Messages() []domain.Message {
	return c.Snapshot().Messages
}

// IsLoading returns true while a request for the current key is in flight.
func (c *Conversation) IsLoading() bool {
	return c.Snapshot().IsLoading
}

// Error returns the last provider error, or "".
func (c *Conversation) Error() string {
	return c.Snapshot().Error
}

// Key returns the conversation key.
func (c *Conversation) Key() string {
	return c.Snapshot().Key
}

// Subscribe registers fn to receive the state after every change.
// Callbacks run on the goroutine that made the change, outside the engine lock,
// and never observe an older state after a newer one.
func (c *Conversation) Subscribe(fn func(state driving.ConversationState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Conversation) resetLocked(initial []domain.Message) {
	c.messages = cloneOrEmpty(initial)
	c.inflight = 0
	c.err = ""
	c.epoch++
}

func (c *Conversation) newMessageLocked(role domain.Role, content string) domain.Message {
	return domain.Message{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: c.clock.Now(),
	}
}

// stateLocked captures the state and stamps it with a sequence number.
func (c *Conversation) stateLocked() (driving.ConversationState, uint64) {
	c.seq++
	return driving.ConversationState{
		Key:       c.key,
		Messages:  cloneOrEmpty(c.messages),
		IsLoading: c.inflight > 0,
		Error:     c.err,
	}, c.seq
}

// notify delivers state unless a newer state was already delivered.
func (c *Conversation) notify(state driving.ConversationState, seq uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.lastNotified {
		return
	}
	c.lastNotified = seq

	c.mu.Lock()
	subs := make([]func(driving.ConversationState), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func indexOfMessage(msgs []domain.Message, id string) int {
	for i := range msgs {
		if msgs[i].ID == id {
			return i
		}
	}
	return -1
}

// removeMessage returns msgs without the message id, leaving msgs untouched.
func removeMessage(msgs []domain.Message, id string) []domain.Message {
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

func cloneOrEmpty(msgs []domain.Message) []domain.Message {
	if msgs == nil {
		return []domain.Message{}
	}
	return domain.CloneMessages(msgs)
}
