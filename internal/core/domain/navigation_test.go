package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func groups(n int) []HighlightGroup {
	out := make([]HighlightGroup, n)
	for i := range out {
		out[i] = HighlightGroup{ID: string(rune('a' + i))}
	}
	return out
}

// TestNewNavigationState_Empty verifies the -1 index invariant for empty lists
func TestNewNavigationState_Empty(t *testing.T) {
	s := NewNavigationState(NavModeCitation, nil)

	assert.Equal(t, -1, s.ActiveIndex)
	assert.Nil(t, s.Active())
}

// TestNewNavigationState_NonEmpty verifies index 0 initialisation
func TestNewNavigationState_NonEmpty(t *testing.T) {
	s := NewNavigationState(NavModeSearch, groups(3))

	assert.Equal(t, 0, s.ActiveIndex)
	assert.Equal(t, "a", s.Active().ID)
}

// TestNavigationState_NextWraparound verifies len(ordered) next calls return to start
func TestNavigationState_NextWraparound(t *testing.T) {
	for _, n := range []int{1, 2, 5, 9} {
		s := NewNavigationState(NavModeCitation, groups(n))
		start := s.ActiveIndex
		for i := 0; i < n; i++ {
			s.Next()
		}
		assert.Equal(t, start, s.ActiveIndex, "n=%d", n)
	}
}

// TestNavigationState_PreviousWraparound verifies previous wraps symmetrically
func TestNavigationState_PreviousWraparound(t *testing.T) {
	s := NewNavigationState(NavModeCitation, groups(4))

	s.Previous()
	assert.Equal(t, 3, s.ActiveIndex)

	for i := 0; i < 3; i++ {
		s.Previous()
	}
	assert.Equal(t, 0, s.ActiveIndex)
}

// TestNavigationState_EmptyNavigation verifies empty state stays at -1
func TestNavigationState_EmptyNavigation(t *testing.T) {
	s := NewNavigationState(NavModeSearch, nil)

	assert.Equal(t, -1, s.Next())
	assert.Equal(t, -1, s.Previous())
}

// TestNavigationState_Invariant checks the index bound after arbitrary moves
func TestNavigationState_Invariant(t *testing.T) {
	s := NewNavigationState(NavModeCitation, groups(3))

	moves := []func() int{s.Next, s.Next, s.Previous, s.Next, s.Previous, s.Previous}
	for _, move := range moves {
		idx := move()
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, s.Len())
	}
}
