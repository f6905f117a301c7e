package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/layers/textlayer"
)

// documentLayer builds a small tender-like document layer.
func documentLayer() (*textlayer.Layer, *textlayer.Marker) {
	l := textlayer.New()
	lines := []string{
		"Ogłoszenie o zamówieniu publicznym",
		"Przedmiotem zamówienia jest dostawa sprzętu komputerowego",
		"8) Wykonawca zapewni serwis gwarancyjny",
		"Termin składania ofert upływa w piątek",
		"Dodatkowa dostawa sprzętu nastąpi w drugim kwartale",
	}
	for i, line := range lines {
		l.Append(nodeName(i), line, domain.Rect{Y: float64(i * 20), W: 400, H: 12}, 1)
	}
	l.MarkReady()
	return l, textlayer.NewMarker(l)
}

func nodeName(i int) string {
	return "n" + string(rune('0'+i))
}

func newManager() *HighlightManager {
	layer, marker := documentLayer()
	m := NewHighlightManager(domain.FileRecord{ID: "f1", Name: "doc.pdf"}, layer, marker)
	m.SetPacing(0) // no pacing in tests
	return m
}

func TestHighlightCitations(t *testing.T) {
	m := newManager()

	citations := []domain.Citation{
		{ID: "c0", Text: "dostawa sprzętu komputerowego"},
		{ID: "c1", Text: "8)"},
		// Alien tokens defeat every pass including the fuzzy recovery.
		{ID: "c2", Text: "xxxx yyyy zzzz xxxx yyyy zzzz"},
	}

	report, err := m.HighlightCitations(context.Background(), citations)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FoundCount())
	assert.Equal(t, 1, report.NotFoundCount())
	assert.Equal(t, domain.NavModeCitation, report.Mode)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, domain.StrategyStrict, report.Outcomes[0].Strategy)
	assert.Equal(t, domain.StrategyNumeric, report.Outcomes[1].Strategy)
	assert.False(t, report.Outcomes[2].Found)

	// Navigation state covers every located group in reading order.
	st := m.State()
	assert.Equal(t, domain.NavModeCitation, st.Mode)
	assert.Equal(t, 0, st.ActiveIndex)
	assert.NotEmpty(t, st.Ordered)

	notFound := m.NotFound()
	require.Len(t, notFound, 1)
	assert.Equal(t, "c2", notFound[0].Citation.ID)
}

func TestHighlightCitations_Progress(t *testing.T) {
	m := newManager()

	var calls [][2]int
	m.SetProgressFunc(func(processed, total int) {
		calls = append(calls, [2]int{processed, total})
	})

	citations := []domain.Citation{
		{ID: "c0", Text: "dostawa sprzętu"},
		{ID: "c1", Text: "Termin składania ofert"},
	}
	_, err := m.HighlightCitations(context.Background(), citations)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, [2]int{1, 2}, calls[0])
	assert.Equal(t, [2]int{2, 2}, calls[1])
}

func TestHighlightCitations_Superseded(t *testing.T) {
	m := newManager()

	// Clearing mid-pass supersedes the running pass.
	m.SetProgressFunc(func(processed, _ int) {
		if processed == 1 {
			m.Clear()
		}
	})

	citations := []domain.Citation{
		{ID: "c0", Text: "dostawa sprzętu"},
		{ID: "c1", Text: "Termin składania ofert"},
	}
	report, err := m.HighlightCitations(context.Background(), citations)
	assert.ErrorIs(t, err, domain.ErrPassSuperseded)
	// The partial report still carries the first outcome.
	assert.Len(t, report.Outcomes, 1)
	assert.Equal(t, -1, m.CurrentIndex())
}

func TestHighlightCitations_Cancelled(t *testing.T) {
	m := newManager()
	m.SetPacing(DefaultCitationInterval)

	ctx, cancel := context.WithCancel(context.Background())
	m.SetProgressFunc(func(processed, _ int) {
		if processed == 1 {
			cancel()
		}
	})

	citations := []domain.Citation{
		{ID: "c0", Text: "dostawa sprzętu"},
		{ID: "c1", Text: "Termin składania ofert"},
	}
	_, err := m.HighlightCitations(ctx, citations)
	assert.ErrorIs(t, err, context.Canceled)
}

// gatedMarker stalls the first Mark call until released, opening the
// window between matching a citation and a concurrent Clear.
type gatedMarker struct {
	driven.TextMarker
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedMarker) Mark(p driven.Pattern, opts driven.MarkOptions) ([]domain.MatchRegion, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.TextMarker.Mark(p, opts)
}

func TestClear_RemovesMarksFromSupersededPass(t *testing.T) {
	layer, inner := documentLayer()
	marker := &gatedMarker{
		TextMarker: inner,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	m := NewHighlightManager(domain.FileRecord{ID: "f1"}, layer, marker)
	m.SetPacing(0)

	done := make(chan error, 1)
	go func() {
		_, err := m.HighlightCitations(context.Background(), []domain.Citation{
			{ID: "c0", Text: "dostawa sprzętu komputerowego"},
		})
		done <- err
	}()

	<-marker.entered
	cleared := make(chan struct{})
	go func() {
		m.Clear()
		close(cleared)
	}()

	// Clear supersedes the pass while its mark is still in flight.
	require.Eventually(t, func() bool {
		return m.generation.Load() > 1
	}, time.Second, time.Millisecond)
	close(marker.release)

	assert.ErrorIs(t, <-done, domain.ErrPassSuperseded)
	<-cleared

	assert.Empty(t, marker.Regions(), "superseded pass left marks behind")
	assert.Zero(t, m.MatchCount())
	assert.Equal(t, -1, m.CurrentIndex())
}

func TestHighlightCitations_Deterministic(t *testing.T) {
	citations := []domain.Citation{
		{ID: "c0", Text: "dostawa sprzętu komputerowego"},
		{ID: "c1", Text: "8)"},
		{ID: "c2", Text: "xxxx yyyy zzzz xxxx yyyy zzzz"},
	}

	run := func() domain.RunReport {
		m := newManager()
		report, err := m.HighlightCitations(context.Background(), citations)
		require.NoError(t, err)
		return report
	}

	a, b := run(), run()
	require.Len(t, b.Outcomes, len(a.Outcomes))
	for i := range a.Outcomes {
		assert.Equal(t, a.Outcomes[i].Found, b.Outcomes[i].Found, a.Outcomes[i].CitationID)
		assert.Equal(t, a.Outcomes[i].Strategy, b.Outcomes[i].Strategy)
		assert.Equal(t, a.Outcomes[i].Groups, b.Outcomes[i].Groups)
	}
}

func TestNavigation_Wraparound(t *testing.T) {
	m := newManager()

	// "dostawa sprzętu" appears twice, far apart.
	require.NoError(t, m.Search(context.Background(), "dostawa sprzętu"))
	require.Equal(t, 2, m.MatchCount())
	assert.Equal(t, 0, m.CurrentIndex())

	assert.Equal(t, 1, m.Next())
	assert.Equal(t, 0, m.Next()) // wraps forward
	assert.Equal(t, 1, m.Previous())
	assert.Equal(t, 0, m.Previous())
}

func TestSearch_ModeExclusivity(t *testing.T) {
	m := newManager()

	_, err := m.HighlightCitations(context.Background(), []domain.Citation{
		{ID: "c0", Text: "dostawa sprzętu komputerowego"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.NavModeCitation, m.State().Mode)

	// Entering search mode discards citation highlights and state.
	require.NoError(t, m.Search(context.Background(), "Termin składania"))
	st := m.State()
	assert.Equal(t, domain.NavModeSearch, st.Mode)
	assert.Equal(t, 1, st.Len())
	for _, g := range st.Ordered {
		assert.Empty(t, g.CitationID)
	}
}

func TestSearch_EmptyQueryClears(t *testing.T) {
	m := newManager()

	require.NoError(t, m.Search(context.Background(), "dostawa"))
	require.NotZero(t, m.MatchCount())

	require.NoError(t, m.Search(context.Background(), "   "))
	assert.Zero(t, m.MatchCount())
	assert.Equal(t, -1, m.CurrentIndex())
}

func TestClear(t *testing.T) {
	m := newManager()

	require.NoError(t, m.Search(context.Background(), "dostawa"))
	require.NotZero(t, m.MatchCount())

	m.Clear()
	assert.Zero(t, m.MatchCount())
	assert.Equal(t, -1, m.CurrentIndex())
	assert.Nil(t, m.State().Active())
}

func TestActiveRegionIsExclusive(t *testing.T) {
	layer, marker := documentLayer()
	m := NewHighlightManager(domain.FileRecord{ID: "f1"}, layer, marker)
	m.SetPacing(0)

	require.NoError(t, m.Search(context.Background(), "dostawa sprzętu"))
	m.Next()

	active := 0
	for _, r := range marker.Regions() {
		if r.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestScrollCallback(t *testing.T) {
	m := newManager()

	var scrolled []domain.HighlightGroup
	m.SetScrollFunc(func(g domain.HighlightGroup) {
		scrolled = append(scrolled, g)
	})

	require.NoError(t, m.Search(context.Background(), "dostawa sprzętu"))
	m.Next()

	// Once on entering search mode, once per navigation step.
	assert.Len(t, scrolled, 2)
}

func TestHighlightCitations_DegradedFlag(t *testing.T) {
	m := newManager()
	m.SetDegraded(true)

	report, err := m.HighlightCitations(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, report.Degraded)
	assert.Zero(t, report.FoundCount())
}
