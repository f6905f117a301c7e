package driving

import (
	"context"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// ProgressFunc receives sequential-pass progress for UI feedback.
type ProgressFunc func(processed, total int)

// ScrollFunc receives the group that should be scrolled into centred view.
type ScrollFunc func(group domain.HighlightGroup)

// Highlighter is the navigation surface the UI shell binds to. One
// highlighter owns one rendered text layer; citations and search
// queries are mutually exclusive inputs.
type Highlighter interface {
	// HighlightCitations runs the citation pipeline: citations are
	// processed one at a time, sequentially, each producing zero or
	// more highlight groups. A newer call supersedes an in-flight one.
	// Switching to citation mode discards any search state.
	HighlightCitations(ctx context.Context, citations []domain.Citation) (domain.RunReport, error)

	// Search highlights every occurrence of the query and enters
	// search mode, discarding any citation state. An empty query
	// clears all highlights.
	Search(ctx context.Context, query string) error

	// Clear removes all highlights and resets to the idle state.
	Clear()

	// Next advances the active highlight with wraparound and returns
	// the new index (-1 when there are no matches).
	Next() int

	// Previous steps the active highlight back with wraparound and
	// returns the new index (-1 when there are no matches).
	Previous() int

	// MatchCount returns the number of navigable highlight groups.
	MatchCount() int

	// CurrentIndex returns the active index (-1 when empty).
	CurrentIndex() int

	// NotFound returns citations that could not be located, for the
	// "could not locate N citations" banner.
	NotFound() []domain.CitationResult

	// State returns a copy of the current navigation state.
	State() domain.NavigationState

	// SetProgressFunc installs the progress callback.
	SetProgressFunc(fn ProgressFunc)

	// SetScrollFunc installs the scroll-into-view callback.
	SetScrollFunc(fn ScrollFunc)
}
