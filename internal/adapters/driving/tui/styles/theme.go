// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color
}

// DarkTheme returns the dark palette.
func DarkTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#E0A458"), // Amber
		Secondary:  lipgloss.Color("#7FB5B5"), // Sea green
		Foreground: lipgloss.Color("#E6E1D6"), // Paper
		Muted:      lipgloss.Color("#7D7A72"),
		Success:    lipgloss.Color("#A6C48A"),
		Warning:    lipgloss.Color("#F2D492"),
		Error:      lipgloss.Color("#E07A7A"),
		Border:     lipgloss.Color("#4A4843"),
		Bar:        lipgloss.Color("#26241F"),
	}
}

// LightTheme returns the light palette.
func LightTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#9A5B13"),
		Secondary:  lipgloss.Color("#2F6F6F"),
		Foreground: lipgloss.Color("#2B2A27"),
		Muted:      lipgloss.Color("#8A867D"),
		Success:    lipgloss.Color("#4E7A2E"),
		Warning:    lipgloss.Color("#A87B00"),
		Error:      lipgloss.Color("#B03A3A"),
		Border:     lipgloss.Color("#CFC9BC"),
		Bar:        lipgloss.Color("#EEE8DC"),
	}
}

// ThemeFor picks the palette for a theme preference.
// The system preference follows the terminal background.
func ThemeFor(pref domain.Theme) *Theme {
	switch pref {
	case domain.ThemeLight:
		return LightTheme()
	case domain.ThemeDark:
		return DarkTheme()
	default:
		if lipgloss.HasDarkBackground() {
			return DarkTheme()
		}
		return LightTheme()
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style

	// Pane is a bordered container; FocusedPane highlights the active one.
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style

	// UserLabel and AssistantLabel prefix conversation messages.
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DarkTheme()
	}

	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal:  lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().Foreground(theme.Muted),

		Pane:        pane,
		FocusedPane: pane.BorderForeground(theme.Primary),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),
	}
}

// DefaultStyles returns styles with the dark theme.
func DefaultStyles() *Styles {
	return NewStyles(DarkTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
