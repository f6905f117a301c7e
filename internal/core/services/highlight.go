package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
	"github.com/offerta-labs/citemark/internal/fragment"
	"github.com/offerta-labs/citemark/internal/logger"
	"github.com/offerta-labs/citemark/internal/matcher"
)

// Ensure HighlightManager implements the interface.
var _ driving.Highlighter = (*HighlightManager)(nil)

// DefaultCitationInterval paces sequential citation passes so marking
// one citation's regions settles before the next pattern runs.
const DefaultCitationInterval = 100 * time.Millisecond

// strategyRank orders strategies by confidence for reporting the
// strongest one per citation.
var strategyRank = map[domain.MatchStrategy]int{
	domain.StrategyStrict:  5,
	domain.StrategyNumeric: 4,
	domain.StrategyLoose:   3,
	domain.StrategyPrefix:  2,
	domain.StrategyBitap:   1,
}

// HighlightManager runs citation and search passes over one text layer
// and owns the resulting navigation state. Citations are processed
// sequentially; a newer pass supersedes an in-flight one via a
// generation counter.
type HighlightManager struct {
	layer  driven.TextLayer
	marker driven.TextMarker
	match  *matcher.Matcher

	limiter  *rate.Limiter
	grouping GroupingConfig
	degraded bool
	fileID   string
	fileName string

	generation atomic.Uint64

	mu         sync.Mutex
	state      domain.NavigationState
	notFound   []domain.CitationResult
	progressFn driving.ProgressFunc
	scrollFn   driving.ScrollFunc
}

// NewHighlightManager creates a manager over an acquired layer with the
// default matcher tuning.
func NewHighlightManager(rec domain.FileRecord, layer driven.TextLayer, marker driven.TextMarker) *HighlightManager {
	return NewHighlightManagerWithOptions(rec, layer, marker, matcher.Options{})
}

// NewHighlightManagerWithOptions creates a manager with explicit matcher
// options.
func NewHighlightManagerWithOptions(rec domain.FileRecord, layer driven.TextLayer, marker driven.TextMarker, opts matcher.Options) *HighlightManager {
	return &HighlightManager{
		layer:    layer,
		marker:   marker,
		match:    matcher.New(layer, marker, opts),
		limiter:  rate.NewLimiter(rate.Every(DefaultCitationInterval), 1),
		grouping: DefaultGroupingConfig(),
		fileID:   rec.ID,
		fileName: rec.Name,
		state:    domain.NavigationState{ActiveIndex: -1},
	}
}

// SetPacing overrides the inter-citation interval.
func (m *HighlightManager) SetPacing(interval time.Duration) {
	if interval <= 0 {
		m.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	m.limiter = rate.NewLimiter(rate.Every(interval), 1)
}

// SetGrouping overrides the spatial grouping thresholds.
func (m *HighlightManager) SetGrouping(cfg GroupingConfig) {
	m.grouping = cfg
}

// SetDegraded records that the layer readiness gate timed out, so run
// reports carry the flag.
func (m *HighlightManager) SetDegraded(degraded bool) {
	m.degraded = degraded
}

// HighlightCitations runs the citation pipeline sequentially. A newer
// HighlightCitations, Search or Clear call supersedes the pass, which
// then returns domain.ErrPassSuperseded with a partial report.
func (m *HighlightManager) HighlightCitations(ctx context.Context, citations []domain.Citation) (domain.RunReport, error) {
	gen := m.generation.Add(1)
	logger.Section("Citation Highlighting")
	logger.Debug("Citations: %d, degraded layer: %t", len(citations), m.degraded)

	start := time.Now()
	report := domain.RunReport{
		ID:        uuid.New().String(),
		FileID:    m.fileID,
		FileName:  m.fileName,
		Mode:      domain.NavModeCitation,
		StartedAt: start,
		Degraded:  m.degraded,
	}

	// Entering citation mode discards search state and prior markup.
	m.mu.Lock()
	m.marker.Clear()
	m.state = domain.NavigationState{Mode: domain.NavModeCitation, ActiveIndex: -1}
	m.notFound = nil
	m.mu.Unlock()

	var groups []domain.HighlightGroup
	total := len(citations)
	for i, c := range citations {
		if i > 0 {
			if err := m.limiter.Wait(ctx); err != nil {
				report.Duration = time.Since(start)
				return report, err
			}
		}
		// Matching marks regions as a side effect, so it runs under the
		// state lock with a fresh generation check. A superseding Clear
		// either waits for the in-flight citation and then removes its
		// marks, or has already run, in which case the stale pass stops
		// before marking anything else.
		m.mu.Lock()
		if m.generation.Load() != gen {
			m.mu.Unlock()
			logger.Debug("citation pass superseded at %d/%d", i, total)
			report.Duration = time.Since(start)
			return report, domain.ErrPassSuperseded
		}
		result := m.locateCitation(c)
		if !result.Found {
			m.notFound = append(m.notFound, result)
		}
		m.mu.Unlock()

		if result.Found {
			groups = append(groups, result.Groups...)
		} else {
			logger.Debug("citation %s not found: %.60q", c.ID, c.Text)
		}

		report.Outcomes = append(report.Outcomes, domain.CitationOutcome{
			CitationID: c.ID,
			Text:       c.Text,
			Found:      result.Found,
			Strategy:   result.Strategy,
			Groups:     len(result.Groups),
			Suggestion: result.Suggestion,
		})
		m.reportProgress(i+1, total)
	}
	report.Duration = time.Since(start)

	m.mu.Lock()
	if m.generation.Load() != gen {
		m.mu.Unlock()
		return report, domain.ErrPassSuperseded
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Representative().Start < groups[j].Representative().Start
	})
	m.state = domain.NewNavigationState(domain.NavModeCitation, groups)
	active := m.state.Active()
	scrollFn := m.scrollFn
	m.mu.Unlock()

	if active != nil {
		m.marker.SetActive(active.Representative().ID, true)
		if scrollFn != nil {
			scrollFn(*active)
		}
	}

	logger.Info("Located %d/%d citations in %s", report.FoundCount(), total, report.Duration.Round(time.Millisecond))
	return report, nil
}

// locateCitation normalises one citation and runs the pass ladder for
// each fragment. Matching failures degrade to not-found, never error.
func (m *HighlightManager) locateCitation(c domain.Citation) domain.CitationResult {
	result := domain.CitationResult{Citation: c}

	var regions []domain.MatchRegion
	for _, frag := range fragment.Normalise(c) {
		found, strategy, err := m.match.MatchFragment(frag)
		if err != nil {
			logger.Debug("fragment %.40q rejected: %v", frag.Text, err)
			continue
		}
		if len(found) == 0 {
			continue
		}
		regions = append(regions, found...)
		if strategyRank[strategy] > strategyRank[result.Strategy] {
			result.Strategy = strategy
		}
	}

	if len(regions) == 0 {
		result.Suggestion = matcher.Suggest(m.layer.Text(), c.Text)
		return result
	}

	result.Found = true
	result.Groups = GroupRegions(regions, m.grouping)
	return result
}

// Search highlights every occurrence of the query and enters search
// mode. An empty query clears all highlights. A newer pass supersedes
// an in-flight search, which returns domain.ErrPassSuperseded.
func (m *HighlightManager) Search(_ context.Context, query string) error {
	gen := m.generation.Add(1)
	query = strings.TrimSpace(query)
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	// Marking runs under the state lock, same as the citation pass.
	m.mu.Lock()
	m.marker.Clear()
	m.notFound = nil
	if query == "" {
		m.state = domain.NavigationState{ActiveIndex: -1}
		m.mu.Unlock()
		return nil
	}

	regions, err := m.match.MatchQuery(query)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	groups := GroupRegions(regions, m.grouping)

	if m.generation.Load() != gen {
		m.mu.Unlock()
		return domain.ErrPassSuperseded
	}
	m.state = domain.NewNavigationState(domain.NavModeSearch, groups)
	active := m.state.Active()
	scrollFn := m.scrollFn
	m.mu.Unlock()

	if active != nil {
		m.marker.SetActive(active.Representative().ID, true)
		if scrollFn != nil {
			scrollFn(*active)
		}
	}

	logger.Info("Search matched %d groups", len(groups))
	return nil
}

// Clear removes all highlights and resets to the idle state.
func (m *HighlightManager) Clear() {
	m.generation.Add(1)
	m.mu.Lock()
	m.marker.Clear()
	m.state = domain.NavigationState{ActiveIndex: -1}
	m.notFound = nil
	m.mu.Unlock()
}

// Next advances the active highlight with wraparound.
func (m *HighlightManager) Next() int {
	return m.step(func(s *domain.NavigationState) int { return s.Next() })
}

// Previous steps the active highlight back with wraparound.
func (m *HighlightManager) Previous() int {
	return m.step(func(s *domain.NavigationState) int { return s.Previous() })
}

func (m *HighlightManager) step(move func(*domain.NavigationState) int) int {
	m.mu.Lock()
	idx := move(&m.state)
	active := m.state.Active()
	scrollFn := m.scrollFn
	m.mu.Unlock()

	if active != nil {
		m.marker.SetActive(active.Representative().ID, true)
		if scrollFn != nil {
			scrollFn(*active)
		}
	}
	return idx
}

// MatchCount returns the number of navigable highlight groups.
func (m *HighlightManager) MatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Len()
}

// CurrentIndex returns the active index (-1 when empty).
func (m *HighlightManager) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ActiveIndex
}

// NotFound returns citations that could not be located.
func (m *HighlightManager) NotFound() []domain.CitationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CitationResult, len(m.notFound))
	copy(out, m.notFound)
	return out
}

// State returns a copy of the current navigation state.
func (m *HighlightManager) State() domain.NavigationState {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	st.Ordered = make([]domain.HighlightGroup, len(m.state.Ordered))
	copy(st.Ordered, m.state.Ordered)
	return st
}

// SetProgressFunc installs the progress callback.
func (m *HighlightManager) SetProgressFunc(fn driving.ProgressFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressFn = fn
}

// SetScrollFunc installs the scroll-into-view callback.
func (m *HighlightManager) SetScrollFunc(fn driving.ScrollFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrollFn = fn
}

func (m *HighlightManager) reportProgress(processed, total int) {
	m.mu.Lock()
	fn := m.progressFn
	m.mu.Unlock()
	if fn != nil {
		fn(processed, total)
	}
}
