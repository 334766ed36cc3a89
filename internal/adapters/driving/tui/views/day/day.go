// Package day provides the single-day journaling view: the diary on the
// left, the conversation about it on the right.
package day

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/components/conversation"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/logger"
)

// tickInterval is how often the save indicator is refreshed.
const tickInterval = 200 * time.Millisecond

// Deps are the services the day view drives.
type Deps struct {
	Journal      driving.JournalService
	Autosave     driving.Autosave
	Conversation driving.Conversation
}

// View shows one day's diary and conversation.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	journal  driving.JournalService
	autosave driving.Autosave
	conv     driving.Conversation
	ctx      context.Context

	diary     textarea.Model
	thread    *conversation.Thread
	ask       *input.AskInput
	statusbar *status.Bar

	date    domain.DateKey
	days    int
	focus   messages.Focus
	changed chan struct{}
	cancel  func()

	width  int
	height int
}

// NewView creates a day view bound to the autosave's current date.
func NewView(s *styles.Styles, km *keymap.KeyMap, deps Deps) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "How was your day?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(deps.Autosave.Content())
	ta.Focus()

	v := &View{
		styles:    s,
		keymap:    km,
		journal:   deps.Journal,
		autosave:  deps.Autosave,
		conv:      deps.Conversation,
		ctx:       context.Background(),
		diary:     ta,
		thread:    conversation.NewThread(s),
		ask:       input.NewAskInput(s),
		statusbar: status.NewBar(s, km),
		date:      deps.Autosave.Date(),
		focus:     messages.FocusDiary,
		changed:   make(chan struct{}, 1),
		width:     80,
		height:    24,
	}

	// Notifications may arrive on any goroutine; coalesce them into one
	// pending signal and read the latest snapshot when it is handled.
	v.cancel = v.conv.Subscribe(func(driving.ConversationState) {
		select {
		case v.changed <- struct{}{}:
		default:
		}
	})

	v.loadConversation()
	v.layout()
	return v
}

// WithContext sets the context used for assistant requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the view's background commands.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.diary.Focus(), v.waitForChange(), tick())
}

// Update handles messages for the day view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ConversationChanged:
		v.applyState(msg.State)
		return v, v.waitForChange()

	case messages.SendCompleted:
		v.handleSendCompleted(msg.Err)
		return v, nil

	case messages.DateChanged:
		v.setDate(msg.Date)
		return v, nil

	case messages.PromptChanged:
		v.statusbar.SetMessage(fmt.Sprintf("Reloaded %s prompt", msg.Name))
		return v, nil

	case messages.Tick:
		v.statusbar.SetSaveStatus(v.autosave.Status())
		return v, tick()

	case messages.ErrorOccurred:
		if msg.Err != nil {
			v.statusbar.SetError(msg.Err.Error())
		}
		return v, nil
	}

	return v.forward(msg)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.NextDay):
		return v, changeDate(v.date.AddDays(1))
	case keymap.Matches(k, v.keymap.PrevDay):
		return v, changeDate(v.date.AddDays(-1))
	case keymap.Matches(k, v.keymap.Today):
		return v, changeDate(v.journal.Today())
	case keymap.Matches(k, v.keymap.SwitchFocus):
		return v, v.toggleFocus()
	case keymap.Matches(k, v.keymap.ScrollUp):
		v.thread.ScrollUp()
		return v, nil
	case keymap.Matches(k, v.keymap.ScrollDown):
		v.thread.ScrollDown()
		return v, nil
	case keymap.Matches(k, v.keymap.Reflect):
		return v, v.reflect()
	case keymap.Matches(k, v.keymap.EditLast):
		return v, v.editLast()
	}

	if v.focus == messages.FocusAsk {
		switch {
		case keymap.Matches(k, v.keymap.Send):
			return v, v.submit()
		case keymap.Matches(k, v.keymap.Cancel):
			if v.ask.EditingID() != "" {
				v.ask.Reset()
				return v, nil
			}
			return v, v.setFocus(messages.FocusDiary)
		}
	}

	return v.forward(msg)
}

// forward passes msg to the focused component.
func (v *View) forward(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	if v.focus == messages.FocusAsk {
		v.ask, cmd = v.ask.Update(msg)
		return v, cmd
	}

	before := v.diary.Value()
	v.diary, cmd = v.diary.Update(msg)
	if after := v.diary.Value(); after != before {
		v.autosave.Change(after)
		v.statusbar.SetSaveStatus(v.autosave.Status())
	}
	return v, cmd
}

// reflect sends the diary text as a message.
func (v *View) reflect() tea.Cmd {
	if v.conv.Snapshot().IsLoading {
		return nil
	}
	text := v.diary.Value()
	if domain.IsBlank(text) {
		v.statusbar.SetMessage("Write something first")
		return nil
	}
	if err := v.autosave.Flush(); err != nil {
		logger.Warn("flush before reflect: %v", err)
	}
	return v.send(func(ctx context.Context) error {
		return v.conv.Send(ctx, text)
	})
}

// submit sends the ask input, or resends it when editing.
func (v *View) submit() tea.Cmd {
	text := v.ask.Value()
	if domain.IsBlank(text) || v.conv.Snapshot().IsLoading {
		return nil
	}
	id := v.ask.EditingID()
	v.ask.Reset()
	if id != "" {
		return v.send(func(ctx context.Context) error {
			return v.conv.EditAndResend(ctx, id, text)
		})
	}
	return v.send(func(ctx context.Context) error {
		return v.conv.Send(ctx, text)
	})
}

func (v *View) editLast() tea.Cmd {
	msg, ok := v.thread.LastUserMessage()
	if !ok {
		return nil
	}
	v.ask.StartEdit(msg.ID, msg.Content)
	return v.setFocus(messages.FocusAsk)
}

func (v *View) send(fn func(ctx context.Context) error) tea.Cmd {
	v.statusbar.SetError("")
	v.statusbar.SetThinking(true)
	ctx := v.ctx
	return func() tea.Msg {
		return messages.SendCompleted{Err: fn(ctx)}
	}
}

func (v *View) handleSendCompleted(err error) {
	v.statusbar.SetThinking(v.conv.Snapshot().IsLoading)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrLLMUnavailable):
		v.statusbar.SetError("assistant not configured, run 'daybook settings provider'")
	case errors.Is(err, domain.ErrProviderFailed):
		// Already shown in the thread.
	default:
		v.statusbar.SetError(err.Error())
	}
}

func (v *View) applyState(state driving.ConversationState) {
	v.thread.SetState(state)
	v.statusbar.SetThinking(state.IsLoading)
}

// setDate saves the current day and switches to date.
func (v *View) setDate(date domain.DateKey) {
	if date == v.date || !date.IsValid() {
		return
	}
	// Keystrokes from the last debounce window would be dropped by SetDate,
	// so the view saves them first.
	if err := v.autosave.Flush(); err != nil {
		v.statusbar.SetError(err.Error())
	}
	v.autosave.SetDate(date)
	v.date = date
	v.diary.SetValue(v.autosave.Content())
	v.ask.Reset()
	v.statusbar.SetSaveStatus(v.autosave.Status())
	v.statusbar.SetMessage("")
	v.loadConversation()
}

func (v *View) loadConversation() {
	view, err := v.journal.View(v.date)
	if err != nil {
		v.statusbar.SetError(err.Error())
		return
	}
	v.conv.Load(v.date.String(), view.Conversation)
	v.applyState(v.conv.Snapshot())
}

func (v *View) toggleFocus() tea.Cmd {
	if v.focus == messages.FocusDiary {
		return v.setFocus(messages.FocusAsk)
	}
	return v.setFocus(messages.FocusDiary)
}

func (v *View) setFocus(f messages.Focus) tea.Cmd {
	v.focus = f
	v.statusbar.SetFocus(f)
	if f == messages.FocusAsk {
		v.diary.Blur()
		return v.ask.Focus()
	}
	v.ask.Blur()
	return v.diary.Focus()
}

func (v *View) waitForChange() tea.Cmd {
	ch, conv := v.changed, v.conv
	return func() tea.Msg {
		<-ch
		return messages.ConversationChanged{State: conv.Snapshot()}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return messages.Tick{}
	})
}

func changeDate(date domain.DateKey) tea.Cmd {
	return func() tea.Msg {
		return messages.DateChanged{Date: date}
	}
}

// Close saves pending diary text and releases the view's subscriptions.
func (v *View) Close() error {
	// Autosave.Close discards pending text; quitting keeps it instead.
	err := v.autosave.Flush()
	v.autosave.Close()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	return err
}

// View renders the day view.
func (v *View) View() string {
	header := v.renderHeader()

	diaryPane, threadPane := v.styles.Pane, v.styles.Pane
	if v.focus == messages.FocusDiary {
		diaryPane = v.styles.FocusedPane
	}

	left := diaryPane.Render(
		v.styles.Subtitle.Render("Diary") + "\n" + v.diary.View(),
	)
	right := threadPane.Render(
		v.styles.Subtitle.Render("Conversation") + "\n" + v.thread.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		v.ask.View(),
		v.statusbar.View(),
	)
}

func (v *View) renderHeader() string {
	title := v.styles.Title.Render(v.date.Time().Format("Monday, January 2, 2006"))
	if v.date == v.journal.Today() {
		title += v.styles.Muted.Render("  (today)")
	}
	switch {
	case v.days == 1:
		title += v.styles.Muted.Render("  · 1 day written")
	case v.days > 1:
		title += v.styles.Muted.Render(fmt.Sprintf("  · %d days written", v.days))
	}
	return title
}

// SetWrittenDays sets the number of days with an entry, shown in the header.
func (v *View) SetWrittenDays(n int) {
	v.days = n
}

// WrittenDays returns the count shown in the header.
func (v *View) WrittenDays() int {
	return v.days
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

// layout splits the space between the panes. Each pane has a border and
// horizontal padding of 4 columns, plus a 2 line frame and a 1 line title.
func (v *View) layout() {
	paneWidth := v.width/2 - 4
	if paneWidth < 10 {
		paneWidth = 10
	}
	// Header, ask input and status bar take a line each.
	paneHeight := v.height - 3 - 3
	if paneHeight < 3 {
		paneHeight = 3
	}

	v.diary.SetWidth(paneWidth)
	v.diary.SetHeight(paneHeight)
	v.thread.SetSize(paneWidth, paneHeight)
	v.ask.SetWidth(v.width)
	v.statusbar.SetWidth(v.width)
}

// Date returns the day being shown.
func (v *View) Date() domain.DateKey {
	return v.date
}

// Focus returns the focused pane.
func (v *View) Focus() messages.Focus {
	return v.focus
}

// DiaryText returns the diary editor's content.
func (v *View) DiaryText() string {
	return v.diary.Value()
}

// AskText returns the ask input's content.
func (v *View) AskText() string {
	return v.ask.Value()
}

// EditingID returns the message being edited, or "".
func (v *View) EditingID() string {
	return v.ask.EditingID()
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}
