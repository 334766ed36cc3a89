// Package conversation renders a day's conversation with the assistant.
package conversation

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/markdown"
)

// Thread is a scrollable view of conversation messages.
type Thread struct {
	viewport viewport.Model
	styles   *styles.Styles
	state    driving.ConversationState
	width    int
	height   int
}

// NewThread creates an empty thread.
func NewThread(s *styles.Styles) *Thread {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := &Thread{
		viewport: viewport.New(60, 10),
		styles:   s,
		width:    60,
		height:   10,
	}
	t.render()
	return t
}

// SetState replaces the displayed conversation and scrolls to the newest message.
func (t *Thread) SetState(state driving.ConversationState) {
	t.state = state
	t.render()
	t.viewport.GotoBottom()
}

// State returns the displayed conversation.
func (t *Thread) State() driving.ConversationState {
	return t.state
}

// LastUserMessage returns the newest user message, if any.
func (t *Thread) LastUserMessage() (domain.Message, bool) {
	for i := len(t.state.Messages) - 1; i >= 0; i-- {
		if t.state.Messages[i].Role == domain.RoleUser {
			return t.state.Messages[i], true
		}
	}
	return domain.Message{}, false
}

// ScrollUp moves up one page.
func (t *Thread) ScrollUp() {
	t.viewport.SetYOffset(t.viewport.YOffset - t.viewport.Height)
}

// ScrollDown moves down one page.
func (t *Thread) ScrollDown() {
	t.viewport.SetYOffset(t.viewport.YOffset + t.viewport.Height)
}

// SetSize sets the thread dimensions.
func (t *Thread) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 1 {
		height = 1
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.render()
}

// View renders the visible part of the thread.
func (t *Thread) View() string {
	return t.viewport.View()
}

func (t *Thread) render() {
	t.viewport.SetContent(t.content())
}

func (t *Thread) content() string {
	if len(t.state.Messages) == 0 && !t.state.IsLoading {
		return t.styles.Muted.Render("No conversation yet. Press ctrl+r to reflect on your diary.")
	}

	wrap := lipgloss.NewStyle().Width(t.width)
	blocks := make([]string, 0, len(t.state.Messages)+1)
	for _, m := range t.state.Messages {
		label, content := t.styles.UserLabel.Render("You"), m.Content
		if m.Role == domain.RoleAssistant {
			label, content = t.styles.AssistantLabel.Render("Assistant"), markdown.Plain(m.Content)
		}
		blocks = append(blocks, label+"\n"+wrap.Render(content))
	}
	if t.state.IsLoading {
		blocks = append(blocks, t.styles.Muted.Render("Assistant is thinking..."))
	}
	if t.state.Error != "" {
		blocks = append(blocks, t.styles.Error.Render("Error: "+t.state.Error))
	}
	return strings.Join(blocks, "\n\n")
}
