package services

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// GroupingConfig holds the pixel thresholds for merging adjacent match
// regions into one visual highlight group.
type GroupingConfig struct {
	// SameLineYTolerance is how far two line tops may drift apart while
	// still reading as the same visual line.
	SameLineYTolerance float64

	// MaxXGap is the largest horizontal gap between regions on the same
	// line that still reads as one highlight.
	MaxXGap float64

	// LineWrapMinYGap and LineWrapMaxYGap bound the vertical distance
	// between line tops for a region starting at or left of the previous
	// one to count as a wrapped continuation.
	LineWrapMinYGap float64
	LineWrapMaxYGap float64
}

// DefaultGroupingConfig returns the standard thresholds, tuned for the
// rendered font sizes of the source documents.
func DefaultGroupingConfig() GroupingConfig {
	return GroupingConfig{SameLineYTolerance: 5, MaxXGap: 50, LineWrapMinYGap: 10, LineWrapMaxYGap: 40}
}

// GroupRegions merges spatially adjacent regions into highlight groups,
// in reading order. The function is pure: the same regions always
// produce the same grouping.
func GroupRegions(regions []domain.MatchRegion, cfg GroupingConfig) []domain.HighlightGroup {
	if len(regions) == 0 {
		return nil
	}

	sorted := make([]domain.MatchRegion, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var groups []domain.HighlightGroup
	cur := newGroup(sorted[0])
	for _, r := range sorted[1:] {
		prev := cur.Regions[len(cur.Regions)-1]
		if r.CitationID == prev.CitationID && adjacent(prev, r, cfg) {
			cur.Regions = append(cur.Regions, r)
			cur.Rect = cur.Rect.Union(r.Rect)
			continue
		}
		groups = append(groups, cur)
		cur = newGroup(r)
	}
	return append(groups, cur)
}

func newGroup(r domain.MatchRegion) domain.HighlightGroup {
	return domain.HighlightGroup{
		ID:         uuid.New().String(),
		CitationID: r.CitationID,
		Regions:    []domain.MatchRegion{r},
		Rect:       r.Rect,
	}
}

// adjacent reports whether next visually continues prev.
func adjacent(prev, next domain.MatchRegion, cfg GroupingConfig) bool {
	dy := next.Rect.Y - prev.Rect.Y

	// Same visual line: tops within tolerance, bounded horizontal gap.
	if math.Abs(dy) <= cfg.SameLineYTolerance {
		return next.Rect.X-prev.Rect.Right() <= cfg.MaxXGap
	}

	// Wrapped continuation: one line down, starting at or left of the
	// previous region's left edge.
	return dy >= cfg.LineWrapMinYGap && dy <= cfg.LineWrapMaxYGap && next.Rect.X <= prev.Rect.X
}
