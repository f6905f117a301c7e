package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

func region(id string, citation string, start int, rect domain.Rect) domain.MatchRegion {
	return domain.MatchRegion{ID: id, CitationID: citation, Start: start, End: start + 10, Rect: rect}
}

func TestGroupRegions_SameLineGap(t *testing.T) {
	regions := []domain.MatchRegion{
		region("r1", "c1", 0, domain.Rect{X: 0, Y: 100, W: 50, H: 12}),
		region("r2", "c1", 10, domain.Rect{X: 97, Y: 100, W: 40, H: 12}),  // 47px gap, merges
		region("r3", "c1", 20, domain.Rect{X: 300, Y: 100, W: 40, H: 12}), // 163px gap, does not
	}

	groups := GroupRegions(regions, DefaultGroupingConfig())
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Regions, 2)
	assert.Len(t, groups[1].Regions, 1)
	// Group rect covers both members.
	assert.Equal(t, 0.0, groups[0].Rect.X)
	assert.Equal(t, 137.0, groups[0].Rect.Right())
}

func TestGroupRegions_SameLineVerticalTolerance(t *testing.T) {
	// Baseline jitter within 5px still reads as the same line.
	regions := []domain.MatchRegion{
		region("r1", "c1", 0, domain.Rect{X: 0, Y: 100, W: 50, H: 12}),
		region("r2", "c1", 10, domain.Rect{X: 60, Y: 104, W: 40, H: 12}),
	}
	assert.Len(t, GroupRegions(regions, DefaultGroupingConfig()), 1)

	// 6px of drift is a different line.
	regions[1].Rect.Y = 106
	assert.Len(t, GroupRegions(regions, DefaultGroupingConfig()), 2)
}

func TestGroupRegions_LineWrap(t *testing.T) {
	// The continuation starts further left on the next line.
	regions := []domain.MatchRegion{
		region("r1", "", 0, domain.Rect{X: 200, Y: 100, W: 100, H: 12}),
		region("r2", "", 10, domain.Rect{X: 0, Y: 120, W: 80, H: 12}),
	}

	groups := GroupRegions(regions, DefaultGroupingConfig())
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Regions, 2)
}

func TestGroupRegions_LineWrapEqualLeftEdge(t *testing.T) {
	// A continuation starting exactly at the previous left edge counts.
	regions := []domain.MatchRegion{
		region("r1", "c1", 0, domain.Rect{X: 40, Y: 100, W: 200, H: 12}),
		region("r2", "c1", 10, domain.Rect{X: 40, Y: 120, W: 80, H: 12}),
	}

	assert.Len(t, GroupRegions(regions, DefaultGroupingConfig()), 1)
}

func TestGroupRegions_LineWrapBand(t *testing.T) {
	// Vertical distance must sit in the wrap band; a region starting
	// right of the previous left edge is never a continuation.
	base := region("r1", "c1", 0, domain.Rect{X: 200, Y: 100, W: 100, H: 12})
	tests := []struct {
		name   string
		rect   domain.Rect
		groups int
	}{
		{"below band", domain.Rect{X: 0, Y: 108, W: 80, H: 12}, 2},
		{"in band", domain.Rect{X: 0, Y: 130, W: 80, H: 12}, 1},
		{"beyond band", domain.Rect{X: 0, Y: 145, W: 80, H: 12}, 2},
		{"right of left edge", domain.Rect{X: 210, Y: 130, W: 80, H: 12}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions := []domain.MatchRegion{base, region("r2", "c1", 10, tt.rect)}
			assert.Len(t, GroupRegions(regions, DefaultGroupingConfig()), tt.groups)
		})
	}
}

func TestGroupRegions_DifferentCitationsNeverMerge(t *testing.T) {
	regions := []domain.MatchRegion{
		region("r1", "c1", 0, domain.Rect{X: 0, Y: 100, W: 50, H: 12}),
		region("r2", "c2", 10, domain.Rect{X: 52, Y: 100, W: 50, H: 12}),
	}

	groups := GroupRegions(regions, DefaultGroupingConfig())
	assert.Len(t, groups, 2)
}

func TestGroupRegions_ReadingOrder(t *testing.T) {
	// Input order does not matter; groups come out in text order.
	regions := []domain.MatchRegion{
		region("r2", "c1", 500, domain.Rect{X: 0, Y: 400, W: 50, H: 12}),
		region("r1", "c1", 0, domain.Rect{X: 0, Y: 100, W: 50, H: 12}),
	}

	groups := GroupRegions(regions, DefaultGroupingConfig())
	require.Len(t, groups, 2)
	assert.Equal(t, "r1", groups[0].Representative().ID)
	assert.Equal(t, "r2", groups[1].Representative().ID)
}

func TestGroupRegions_Deterministic(t *testing.T) {
	regions := []domain.MatchRegion{
		region("r1", "c1", 0, domain.Rect{X: 0, Y: 100, W: 50, H: 12}),
		region("r2", "c1", 10, domain.Rect{X: 53, Y: 100, W: 40, H: 12}),
	}

	a := GroupRegions(regions, DefaultGroupingConfig())
	b := GroupRegions(regions, DefaultGroupingConfig())
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, len(a[i].Regions), len(b[i].Regions))
		assert.Equal(t, a[i].Rect, b[i].Rect)
	}
}

func TestGroupRegions_Idempotent(t *testing.T) {
	// Regrouping the members of an already-grouped set reproduces the
	// same groups: a same-line pair, a wrapped pair and a lone region.
	regions := []domain.MatchRegion{
		region("r1", "c1", 0, domain.Rect{X: 0, Y: 100, W: 50, H: 12}),
		region("r2", "c1", 10, domain.Rect{X: 80, Y: 100, W: 40, H: 12}),
		region("r3", "c2", 100, domain.Rect{X: 200, Y: 200, W: 100, H: 12}),
		region("r4", "c2", 110, domain.Rect{X: 0, Y: 220, W: 80, H: 12}),
		region("r5", "c3", 500, domain.Rect{X: 0, Y: 400, W: 50, H: 12}),
	}

	first := GroupRegions(regions, DefaultGroupingConfig())
	require.Len(t, first, 3)

	var flattened []domain.MatchRegion
	for _, g := range first {
		flattened = append(flattened, g.Regions...)
	}
	second := GroupRegions(flattened, DefaultGroupingConfig())

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Representative().ID, second[i].Representative().ID)
		assert.Equal(t, len(first[i].Regions), len(second[i].Regions))
		assert.Equal(t, first[i].Rect, second[i].Rect)
	}
}

func TestGroupRegions_Empty(t *testing.T) {
	assert.Nil(t, GroupRegions(nil, DefaultGroupingConfig()))
}
