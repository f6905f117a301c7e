package domain

// NavMode selects which input drives the highlight set. The two modes
// are mutually exclusive: a non-empty live query forces search mode and
// discards citation state, and vice versa.
type NavMode string

const (
	// NavModeSearch navigates matches of a live user query.
	NavModeSearch NavMode = "search"

	// NavModeCitation navigates located citations.
	NavModeCitation NavMode = "citation"
)

// NavigationState tracks the active-highlight pointer over an ordered
// list of highlight groups.
//
// Invariant: 0 <= ActiveIndex < len(Ordered) whenever Ordered is
// non-empty, and ActiveIndex == -1 iff Ordered is empty. Exactly one
// group (or none) is active at any time and it always corresponds to
// Ordered[ActiveIndex].
type NavigationState struct {
	Mode        NavMode
	Ordered     []HighlightGroup
	ActiveIndex int
}

// NewNavigationState builds a state over the given groups with the
// active index initialised per the invariant.
func NewNavigationState(mode NavMode, ordered []HighlightGroup) NavigationState {
	idx := -1
	if len(ordered) > 0 {
		idx = 0
	}
	return NavigationState{Mode: mode, Ordered: ordered, ActiveIndex: idx}
}

// Len returns the number of navigable groups.
func (s NavigationState) Len() int { return len(s.Ordered) }

// Next advances the active index by one with wraparound and returns
// the new index. Empty state stays at -1.
func (s *NavigationState) Next() int {
	if len(s.Ordered) == 0 {
		s.ActiveIndex = -1
		return -1
	}
	s.ActiveIndex = (s.ActiveIndex + 1) % len(s.Ordered)
	return s.ActiveIndex
}

// Previous moves the active index back by one with wraparound and
// returns the new index. Empty state stays at -1.
func (s *NavigationState) Previous() int {
	if len(s.Ordered) == 0 {
		s.ActiveIndex = -1
		return -1
	}
	n := len(s.Ordered)
	s.ActiveIndex = (s.ActiveIndex - 1 + n) % n
	return s.ActiveIndex
}

// Active returns the currently active group, or nil when empty.
func (s NavigationState) Active() *HighlightGroup {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Ordered) {
		return nil
	}
	return &s.Ordered[s.ActiveIndex]
}
