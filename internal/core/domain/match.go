package domain

// MatchStrategy records which pass finally located a fragment.
type MatchStrategy string

const (
	// StrategyStrict means the strict gap pattern matched.
	StrategyStrict MatchStrategy = "strict"

	// StrategyLoose means the loose fallback pattern matched.
	StrategyLoose MatchStrategy = "loose"

	// StrategyPrefix means only a 5-word prefix of the fragment matched.
	StrategyPrefix MatchStrategy = "prefix"

	// StrategyBitap means the diff-match-patch locate recovered the fragment
	// after every regex pass failed.
	StrategyBitap MatchStrategy = "bitap"

	// StrategyNumeric means the enumerator boundary pattern matched.
	StrategyNumeric MatchStrategy = "numeric"
)

// Rect is an axis-aligned bounding box in layer coordinates (px).
// Y grows downwards, matching rendered-page geometry.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Union returns the smallest rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	x := r.X
	if o.X < x {
		x = o.X
	}
	y := r.Y
	if o.Y < y {
		y = o.Y
	}
	right := r.Right()
	if o.Right() > right {
		right = o.Right()
	}
	bottom := r.Bottom()
	if o.Bottom() > bottom {
		bottom = o.Bottom()
	}
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// MatchRegion is one located occurrence of a pattern, anchored to a
// concrete range of the text layer. A region may span several layer
// nodes when the match crosses element boundaries.
type MatchRegion struct {
	// ID is the unique identifier for the region.
	ID string

	// CitationID is the owning citation, or empty for search-mode regions.
	CitationID string

	// Start and End are byte offsets into the layer's linearised text.
	Start int
	End   int

	// NodeIDs lists the layer nodes the region touches, in text order.
	NodeIDs []string

	// Rect is the union bounding box of the touched nodes, used for
	// spatial grouping and scrolling.
	Rect Rect

	// Strategy records the pass that produced this region.
	Strategy MatchStrategy

	// Active marks the region as the current navigation target.
	Active bool
}

// HighlightGroup is a set of spatially adjacent regions representing one
// logical occurrence (for example a citation continuing across a line
// wrap). Only the representative first region is a navigable unit.
type HighlightGroup struct {
	// ID is the unique identifier for the group.
	ID string

	// CitationID is the owning citation, or empty in search mode.
	CitationID string

	// Regions holds the merged member regions in reading order.
	Regions []MatchRegion

	// Rect is the union bounding box of all member regions.
	Rect Rect
}

// Representative returns the first region, which anchors navigation
// and scrolling for the whole group.
func (g HighlightGroup) Representative() MatchRegion {
	if len(g.Regions) == 0 {
		return MatchRegion{}
	}
	return g.Regions[0]
}

// CitationResult summarises the outcome of locating one citation.
type CitationResult struct {
	Citation Citation

	// Found is true when at least one fragment located a region.
	Found bool

	// Strategy is the strongest strategy that produced a region.
	Strategy MatchStrategy

	// Groups holds the located highlight groups, empty when not found.
	Groups []HighlightGroup

	// Suggestion optionally carries the nearest document line for a
	// citation that could not be located, for diagnostics.
	Suggestion string
}
