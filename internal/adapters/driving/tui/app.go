package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/views/day"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	// dayView is nil until the journal has loaded, so the diary editor never
	// starts from a half-loaded document.
	dayView *day.View
	unbind  func()
	unwatch func()

	// date mirrors the day view's date for the assistant, which reads it from
	// another goroutine.
	dateMu sync.Mutex
	date   domain.DateKey

	prompts chan string
	journal chan int

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme := domain.ThemeSystem
	if ports.Settings != nil {
		if settings, err := ports.Settings.Get(); err == nil {
			theme = settings.Theme
		} else {
			logger.Warn("tui: load settings: %v", err)
		}
	}

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  styles.NewStyles(styles.ThemeFor(theme)),
		keymap:  keymap.DefaultKeyMap(),
		prompts: make(chan string, 1),
		journal: make(chan int, 1),
		width:   80,
		height:  24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("daybook"),
		a.waitReady(),
		a.watchPrompts(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		if a.dayView != nil {
			a.dayView.SetDimensions(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			a.Close()
			return a, tea.Quit
		}

	case messages.JournalLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		return a, a.openDay()

	case messages.PromptChanged:
		var cmd tea.Cmd
		if a.dayView != nil {
			a.dayView, cmd = a.dayView.Update(msg)
		}
		return a, tea.Batch(cmd, a.waitPrompt())

	case messages.JournalChanged:
		if a.dayView != nil {
			a.dayView.SetWrittenDays(msg.Days)
		}
		return a, a.waitJournal()
	}

	if a.dayView == nil {
		return a, nil
	}

	var cmd tea.Cmd
	a.dayView, cmd = a.dayView.Update(msg)
	a.setDate(a.dayView.Date())
	return a, cmd
}

// openDay creates the day view for today once the journal is ready.
func (a *App) openDay() tea.Cmd {
	if a.dayView != nil {
		return nil
	}

	today := a.ports.Journal.Today()
	a.setDate(today)

	conv, unbind := a.ports.NewConversation(a.Date)
	a.unbind = unbind
	a.dayView = day.NewView(a.styles, a.keymap, day.Deps{
		Journal:      a.ports.Journal,
		Autosave:     a.ports.NewAutosave(today),
		Conversation: conv,
	}).WithContext(a.ctx)
	a.dayView.SetDimensions(a.width, a.height)
	if dates, err := a.ports.Journal.Dates(); err == nil {
		a.dayView.SetWrittenDays(len(dates))
	}
	return tea.Batch(a.dayView.Init(), a.watchJournal())
}

// watchJournal subscribes to store commits. Only the latest count is kept.
func (a *App) watchJournal() tea.Cmd {
	if a.ports.Store == nil || a.unwatch != nil {
		return nil
	}
	ch := a.journal
	a.unwatch = a.ports.Store.Subscribe(func(doc *domain.JournalDoc) {
		days := len(doc.Dates())
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- days:
		default:
		}
	})
	return a.waitJournal()
}

func (a *App) waitJournal() tea.Cmd {
	ch, ctx := a.journal, a.ctx
	return func() tea.Msg {
		select {
		case days := <-ch:
			return messages.JournalChanged{Days: days}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) waitReady() tea.Cmd {
	ctx, wait := a.ctx, a.ports.WaitReady
	return func() tea.Msg {
		if wait == nil {
			return messages.JournalLoaded{}
		}
		return messages.JournalLoaded{Err: wait(ctx)}
	}
}

func (a *App) watchPrompts() tea.Cmd {
	if a.ports.WatchPrompts == nil {
		return nil
	}
	err := a.ports.WatchPrompts(a.ctx, func(name string) {
		select {
		case a.prompts <- name:
		default:
		}
	})
	if err != nil {
		logger.Warn("tui: watch prompts: %v", err)
		return nil
	}
	return a.waitPrompt()
}

func (a *App) waitPrompt() tea.Cmd {
	ch, ctx := a.prompts, a.ctx
	return func() tea.Msg {
		select {
		case name := <-ch:
			return messages.PromptChanged{Name: name}
		case <-ctx.Done():
			return nil
		}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.err != nil {
		return a.styles.Error.Render(fmt.Sprintf("Failed to load journal: %v", a.err)) +
			"\n\n" + a.styles.Help.Render("ctrl+c quit")
	}
	if !a.ready || a.dayView == nil {
		return "Loading journal..."
	}
	return a.dayView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	a.Close()
	return err
}

// Close saves the diary and releases the conversation. Safe to call twice.
func (a *App) Close() {
	if a.dayView != nil {
		if err := a.dayView.Close(); err != nil {
			logger.Warn("tui: save on exit: %v", err)
		}
		a.dayView = nil
	}
	if a.unbind != nil {
		a.unbind()
		a.unbind = nil
	}
	if a.unwatch != nil {
		a.unwatch()
		a.unwatch = nil
	}
}

// Date returns the day being shown. Safe for concurrent use.
func (a *App) Date() domain.DateKey {
	a.dateMu.Lock()
	defer a.dateMu.Unlock()
	return a.date
}

func (a *App) setDate(date domain.DateKey) {
	a.dateMu.Lock()
	a.date = date
	a.dateMu.Unlock()
}

// DayView returns the day view, or nil while loading.
func (a *App) DayView() *day.View {
	return a.dayView
}

// Err returns the load error, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	if a.dayView != nil {
		a.dayView.SetDimensions(width, height)
	}
}
