package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

func TestThemes_HaveAllColours(t *testing.T) {
	for name, theme := range map[string]*Theme{"dark": DarkTheme(), "light": LightTheme()} {
		t.Run(name, func(t *testing.T) {
			for _, c := range []lipgloss.Color{
				theme.Primary, theme.Secondary, theme.Foreground, theme.Muted,
				theme.Success, theme.Warning, theme.Error, theme.Border, theme.Bar,
			} {
				assert.NotEmpty(t, string(c))
			}
		})
	}
}

func TestThemes_AccentsAreDistinct(t *testing.T) {
	theme := DarkTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate colour: %s", c)
		seen[c] = true
	}
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, LightTheme(), ThemeFor(domain.ThemeLight))
	assert.Equal(t, DarkTheme(), ThemeFor(domain.ThemeDark))
	assert.NotNil(t, ThemeFor(domain.ThemeSystem))
}

func TestNewStyles(t *testing.T) {
	theme := LightTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
	assert.NotEmpty(t, styles.Title.Render("Friday"))
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.Equal(t, DarkTheme(), styles.Theme())
}

func TestDefaultStyles(t *testing.T) {
	assert.NotNil(t, DefaultStyles())
}
