package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearchInput(t *testing.T) {
	si := NewSearchInput(nil)

	require.NotNil(t, si)
	assert.False(t, si.Focused())
	assert.Empty(t, si.Value())
}

func TestSearchInput_FocusAndBlur(t *testing.T) {
	si := NewSearchInput(nil)

	si.Focus()
	assert.True(t, si.Focused())

	si.Blur()
	assert.False(t, si.Focused())
}

func TestSearchInput_TypingUpdatesValue(t *testing.T) {
	si := NewSearchInput(nil)
	si.Focus()

	si, _ = si.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("umowa")})

	assert.Equal(t, "umowa", si.Value())
}

func TestSearchInput_Reset(t *testing.T) {
	si := NewSearchInput(nil)
	si.SetValue("stara fraza")

	si.Reset()

	assert.Empty(t, si.Value())
}

func TestSearchInput_SetWidthClamps(t *testing.T) {
	si := NewSearchInput(nil)

	si.SetWidth(10)
	assert.Equal(t, 10, si.Width())

	si.SetWidth(120)
	assert.Equal(t, 120, si.Width())
}

func TestSearchInput_ViewShowsLabel(t *testing.T) {
	si := NewSearchInput(nil)

	assert.Contains(t, si.View(), "Search:")
}
