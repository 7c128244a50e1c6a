package picker

import (
	"github.com/charmbracelet/lipgloss"

	"tms/internal/config"
)

// Styles holds the lipgloss styles derived from the configured theme.
type Styles struct {
	Highlight lipgloss.Style // selected list row
	Border    lipgloss.Style // pane separators and the list rule
	Info      lipgloss.Style // the "matched/total" title
	Prompt    lipgloss.Style // the "> " input glyph
	Cursor    lipgloss.Style // cursor cell in the filter line
}

// NewStyles maps the optional color theme onto concrete styles. A nil theme
// uses the documented defaults.
func NewStyles(theme *config.ColorConfig) Styles {
	var colors config.ColorConfig
	if theme != nil {
		colors = *theme
	}
	colors = colors.Defaults()

	return Styles{
		Highlight: lipgloss.NewStyle().
			Background(lipgloss.Color(colors.HighlightBg)).
			Foreground(lipgloss.Color(colors.HighlightText)),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Border)),
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Info)),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Prompt)),
		Cursor: lipgloss.NewStyle().Reverse(true),
	}
}
