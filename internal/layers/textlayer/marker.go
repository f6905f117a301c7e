package textlayer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
)

// Ensure Marker implements the interface.
var _ driven.TextMarker = (*Marker)(nil)

// Marker applies highlight regions to a text layer. It owns all layer
// markup: callers clear before re-marking, and matches touching an
// excluded node are silently dropped.
type Marker struct {
	mu       sync.Mutex
	layer    driven.TextLayer
	regions  []domain.MatchRegion
	excluded map[string]struct{}
}

// NewMarker creates a marker bound to one layer.
func NewMarker(layer driven.TextLayer) *Marker {
	return &Marker{
		layer:    layer,
		excluded: make(map[string]struct{}),
	}
}

// Mark finds every occurrence of the compiled pattern in the layer text
// outside excluded nodes and records a region for each.
func (m *Marker) Mark(pattern driven.Pattern, opts driven.MarkOptions) ([]domain.MatchRegion, error) {
	if pattern == nil {
		return nil, fmt.Errorf("%w: nil pattern", domain.ErrInvalidInput)
	}

	text := m.layer.Text()
	locs := pattern.FindAllStringIndex(text, -1)

	m.mu.Lock()
	defer m.mu.Unlock()

	var applied []domain.MatchRegion
	for _, loc := range locs {
		region, ok := m.buildRegion(loc[0], loc[1], opts)
		if !ok {
			continue
		}
		m.regions = append(m.regions, region)
		applied = append(applied, region)

		if opts.MaxMatches > 0 && len(applied) >= opts.MaxMatches {
			break
		}
	}
	return applied, nil
}

// MarkRange records a region over an explicit byte range. Used by
// recovery strategies that locate offsets without a regex.
func (m *Marker) MarkRange(start, end int, opts driven.MarkOptions) (domain.MatchRegion, error) {
	if start < 0 || end <= start || end > len(m.layer.Text()) {
		return domain.MatchRegion{}, fmt.Errorf("%w: range [%d,%d)", domain.ErrInvalidInput, start, end)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	region, ok := m.buildRegion(start, end, opts)
	if !ok {
		return domain.MatchRegion{}, fmt.Errorf("%w: range [%d,%d) covers only excluded nodes", domain.ErrInvalidInput, start, end)
	}
	m.regions = append(m.regions, region)
	return region, nil
}

// buildRegion resolves a byte range to its nodes and geometry. Returns
// false when the range touches an excluded node or covers no node.
// Callers hold m.mu.
func (m *Marker) buildRegion(start, end int, opts driven.MarkOptions) (domain.MatchRegion, bool) {
	nodes := m.layer.SpanNodes(start, end)
	if len(nodes) == 0 {
		return domain.MatchRegion{}, false
	}

	rect := nodes[0].Rect
	nodeIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, bad := m.excluded[n.ID]; bad || n.Excluded {
			return domain.MatchRegion{}, false
		}
		nodeIDs = append(nodeIDs, n.ID)
		rect = rect.Union(n.Rect)
	}

	return domain.MatchRegion{
		ID:         uuid.New().String(),
		CitationID: opts.CitationID,
		Start:      start,
		End:        end,
		NodeIDs:    nodeIDs,
		Rect:       rect,
		Strategy:   opts.Strategy,
	}, true
}

// Unmark removes a single region by ID.
func (m *Marker) Unmark(regionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.regions {
		if r.ID == regionID {
			m.regions = append(m.regions[:i], m.regions[i+1:]...)
			return
		}
	}
}

// Clear removes all regions synchronously.
func (m *Marker) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = nil
}

// Regions returns the currently applied regions in text order.
func (m *Marker) Regions() []domain.MatchRegion {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.MatchRegion, len(m.regions))
	copy(out, m.regions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// SetActive toggles the active display state of one region, clearing it
// from all others when active is true.
func (m *Marker) SetActive(regionID string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.regions {
		switch {
		case m.regions[i].ID == regionID:
			m.regions[i].Active = active
		case active:
			m.regions[i].Active = false
		}
	}
}

// ExcludeNode adds a node to the exclusion set. Existing regions
// touching the node are dropped.
func (m *Marker) ExcludeNode(nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.excluded[nodeID] = struct{}{}

	kept := m.regions[:0]
	for _, r := range m.regions {
		touches := false
		for _, id := range r.NodeIDs {
			if id == nodeID {
				touches = true
				break
			}
		}
		if !touches {
			kept = append(kept, r)
		}
	}
	m.regions = kept
}
