package driven

import (
	"github.com/offerta-labs/citemark/internal/core/domain"
)

// LayerNode is one text-bearing node of a rendered document surface.
// Nodes carry the geometry used for spatial grouping and scrolling.
type LayerNode struct {
	// ID is the unique identifier of the node within its layer.
	ID string

	// Text is the node's text content.
	Text string

	// Start and End are the byte offsets of Text within the layer's
	// linearised text.
	Start int
	End   int

	// Rect is the node's bounding box in layer coordinates.
	Rect domain.Rect

	// Page is the 1-based page the node was rendered on (0 for
	// unpaged documents).
	Page int

	// Excluded marks the node as off-limits for matching (highlight
	// overlay chrome, detected page-number footers).
	Excluded bool
}

// TextLayer is the rendered document surface: a sequence of text-bearing
// nodes plus their linearised text. Page-rendered layers may report
// Ready() == false while the renderer is still laying out pages; reading
// text before readiness yields partial content and false negatives.
type TextLayer interface {
	// Text returns the linearised text content of the whole layer.
	Text() string

	// Nodes returns all nodes in text order.
	Nodes() []LayerNode

	// NodeCount returns the number of text-bearing nodes.
	NodeCount() int

	// SpanNodes returns the nodes overlapping the [start, end) byte
	// range of the linearised text, in text order.
	SpanNodes(start, end int) []LayerNode

	// Ready reports whether the layer has finished rendering.
	Ready() bool
}

// MarkOptions configures a marking pass.
type MarkOptions struct {
	// CitationID tags produced regions with their owning citation.
	// Empty for search-mode marks.
	CitationID string

	// Strategy records which matching pass is running.
	Strategy domain.MatchStrategy

	// MaxMatches bounds the number of regions produced (0 = unbounded).
	MaxMatches int
}

// TextMarker applies and removes highlight marks on a text layer.
// Marking is regex-based and spans element boundaries; nodes in the
// exclusion set never satisfy a match.
//
// The marker is the only component allowed to mutate the layer, and a
// highlight pass must always clear prior markup before applying new
// markup.
type TextMarker interface {
	// Mark finds every occurrence of the compiled pattern in the layer
	// text outside excluded nodes and records a region for each.
	Mark(pattern Pattern, opts MarkOptions) ([]domain.MatchRegion, error)

	// MarkRange records a region over an explicit byte range. Used by
	// recovery strategies that locate offsets without a regex.
	MarkRange(start, end int, opts MarkOptions) (domain.MatchRegion, error)

	// Unmark removes a single region by ID.
	Unmark(regionID string)

	// Clear removes all regions synchronously.
	Clear()

	// Regions returns the currently applied regions in text order.
	Regions() []domain.MatchRegion

	// SetActive toggles the active display state of one region,
	// clearing it from all others when active is true.
	SetActive(regionID string, active bool)

	// ExcludeNode adds a node to the exclusion set.
	ExcludeNode(nodeID string)
}

// Pattern is a compiled tolerant-search pattern. It is satisfied by
// *regexp.Regexp; the indirection keeps the port free of a concrete
// pattern engine.
type Pattern interface {
	// FindAllStringIndex returns the byte ranges of every match, as
	// defined by the standard library regexp contract.
	FindAllStringIndex(s string, n int) [][]int

	// String returns the pattern source for logs.
	String() string
}
