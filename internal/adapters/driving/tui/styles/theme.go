// Package styles provides colour themes and styling for the viewer.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette and styling for the viewer.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Warning indicates caution (degraded layers, not-found banners).
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Highlight is the background of a located citation or search match.
	Highlight lipgloss.Color

	// ActiveHighlight is the background of the current navigation target.
	ActiveHighlight lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:         lipgloss.Color("#7C3AED"), // Purple
		Secondary:       lipgloss.Color("#06B6D4"), // Cyan
		Foreground:      lipgloss.Color("#CDD6F4"), // Light gray
		Muted:           lipgloss.Color("#6C7086"), // Medium gray
		Warning:         lipgloss.Color("#F9E2AF"), // Yellow
		Error:           lipgloss.Color("#F38BA8"), // Red
		Border:          lipgloss.Color("#45475A"), // Border gray
		Highlight:       lipgloss.Color("#8A7814"), // Dim yellow
		ActiveHighlight: lipgloss.Color("#C26A1A"), // Orange
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Warning style for warning banners.
	Warning lipgloss.Style

	// Highlight style for located regions.
	Highlight lipgloss.Style

	// ActiveHighlight style for the current navigation target.
	ActiveHighlight lipgloss.Style

	// InputField style for the search input.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for keybinding hints.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#11111B")).
			Background(theme.Highlight),

		ActiveHighlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#11111B")).
			Background(theme.ActiveHighlight),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
