// Package status provides the status bar component for the viewer.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/keymap"
	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateLoading  State = "loading"
	StateLocating State = "locating"
	StateReady    State = "ready"
	StateError    State = "error"
)

// Bar displays pass progress, the match counter and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	degraded bool

	matchCount  int
	activeIndex int

	processed int
	total     int

	width int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:      s,
		keymap:      km,
		state:       StateLoading,
		activeIndex: -1,
		width:       80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and match counter.
func (s *Bar) renderLeft() string {
	var out string
	switch s.state {
	case StateLoading:
		out = s.styles.Muted.Render("Loading document...")
	case StateLocating:
		out = s.styles.Muted.Render(fmt.Sprintf("Locating citations %d/%d", s.processed, s.total))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		if s.matchCount > 0 {
			out = fmt.Sprintf("Match %d/%d", s.activeIndex+1, s.matchCount)
		} else {
			out = "No matches"
		}
		if s.message != "" {
			out += "  " + s.message
		}
		out = s.styles.Normal.Render(out)
	}

	if s.degraded {
		out += "  " + s.styles.Warning.Render("degraded")
	}
	return out
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message shown next to the match counter.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// SetDegraded marks the layer as degraded.
func (s *Bar) SetDegraded(degraded bool) {
	s.degraded = degraded
}

// SetMatches sets the match counter.
func (s *Bar) SetMatches(count, activeIndex int) {
	s.matchCount = count
	s.activeIndex = activeIndex
}

// SetProgress sets the citation pass progress.
func (s *Bar) SetProgress(processed, total int) {
	s.processed = processed
	s.total = total
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// MatchCount returns the current match count.
func (s *Bar) MatchCount() int {
	return s.matchCount
}
