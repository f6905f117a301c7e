package matcher

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/logger"
)

// PrefixWords is how many leading words the prefix retry keeps when the
// full fragment cannot be located.
const PrefixWords = 5

// bitapPatternRunes caps the probe handed to the bitap recovery pass;
// the algorithm's bit-parallel window is 32 characters wide.
const bitapPatternRunes = 30

// Options tunes a Matcher. The zero value selects the defaults.
type Options struct {
	// LooseGapCap overrides the loose-pattern gap bound (runes).
	LooseGapCap int

	// DisableBitap turns the last-resort fuzzy recovery pass off.
	DisableBitap bool
}

// Matcher runs the matching pass ladder for one fragment against one
// text layer: strict, loose, leading-words prefix, then bitap recovery.
// Each pass only runs when every earlier pass found nothing.
type Matcher struct {
	layer  driven.TextLayer
	marker driven.TextMarker
	opts   Options
	dmp    *diffmatchpatch.DiffMatchPatch
}

// New builds a Matcher over a layer and its marker.
func New(layer driven.TextLayer, marker driven.TextMarker, opts Options) *Matcher {
	if opts.LooseGapCap <= 0 {
		opts.LooseGapCap = DefaultLooseGapCap
	}
	return &Matcher{
		layer:  layer,
		marker: marker,
		opts:   opts,
		dmp:    diffmatchpatch.New(),
	}
}

// MatchFragment locates one fragment in the layer and marks every
// occurrence. It returns the applied regions and the strategy that
// produced them; no match is (nil, "", nil), never an error. Errors are
// reserved for malformed fragments.
func (m *Matcher) MatchFragment(frag domain.Fragment) ([]domain.MatchRegion, domain.MatchStrategy, error) {
	if frag.Kind == domain.FragmentEnumerator {
		return m.matchEnumerator(frag)
	}

	opts := driven.MarkOptions{CitationID: frag.CitationID}

	// Pass 1: strict gaps.
	regions, err := m.markWith(frag.Text, domain.StrategyStrict, opts, compileStrictPattern)
	if err != nil {
		return nil, "", err
	}
	if len(regions) > 0 {
		return regions, domain.StrategyStrict, nil
	}

	// Pass 2: loose capped gaps.
	regions, err = m.markWith(frag.Text, domain.StrategyLoose, opts, func(t string) (Pattern, error) {
		return CompileLoose(t, m.opts.LooseGapCap)
	})
	if err != nil {
		return nil, "", err
	}
	if len(regions) > 0 {
		return regions, domain.StrategyLoose, nil
	}

	// Pass 3: retry with only the leading words. Long fragments often
	// fail on a mangled tail while their opening survives extraction.
	if prefix, ok := leadingWords(frag.Text, PrefixWords); ok {
		regions, err = m.markWith(prefix, domain.StrategyPrefix, opts, compileStrictPattern)
		if err != nil {
			return nil, "", err
		}
		if len(regions) > 0 {
			return regions, domain.StrategyPrefix, nil
		}
	}

	// Pass 4: bitap recovery over the raw layer text.
	if !m.opts.DisableBitap {
		if region, ok := m.bitapRecover(frag, opts); ok {
			return []domain.MatchRegion{region}, domain.StrategyBitap, nil
		}
	}

	logger.Debug("fragment not found after all passes: %.60q", frag.Text)
	return nil, "", nil
}

// MatchQuery marks every occurrence of a free-text search query. Search
// uses the strict pattern only; a query that needs fuzzy recovery is
// better served by the citation pipeline.
func (m *Matcher) MatchQuery(query string) ([]domain.MatchRegion, error) {
	pattern, err := CompileStrict(query)
	if err != nil {
		return nil, fmt.Errorf("compiling search pattern: %w", err)
	}
	return m.marker.Mark(pattern, driven.MarkOptions{Strategy: domain.StrategyStrict})
}

// matchEnumerator handles bare list-marker fragments with the
// word-boundary numeric pattern.
func (m *Matcher) matchEnumerator(frag domain.Fragment) ([]domain.MatchRegion, domain.MatchStrategy, error) {
	pattern, err := CompileNumeric(frag.Text)
	if err != nil {
		return nil, "", err
	}
	regions, err := m.marker.Mark(pattern, driven.MarkOptions{
		CitationID: frag.CitationID,
		Strategy:   domain.StrategyNumeric,
	})
	if err != nil {
		return nil, "", err
	}
	if len(regions) == 0 {
		return nil, "", nil
	}
	return regions, domain.StrategyNumeric, nil
}

// markWith compiles a pattern and applies it via the marker.
func (m *Matcher) markWith(text string, strategy domain.MatchStrategy, opts driven.MarkOptions, compile func(string) (Pattern, error)) ([]domain.MatchRegion, error) {
	pattern, err := compile(text)
	if err != nil {
		return nil, err
	}
	opts.Strategy = strategy
	return m.marker.Mark(pattern, opts)
}

// bitapRecover probes the layer text with a bounded fuzzy search and
// marks the best location when one clears the default threshold.
func (m *Matcher) bitapRecover(frag domain.Fragment, opts driven.MarkOptions) (domain.MatchRegion, bool) {
	probe := []rune(frag.Text)
	if len(probe) > bitapPatternRunes {
		probe = probe[:bitapPatternRunes]
	}

	loc := m.dmp.MatchMain(m.layer.Text(), string(probe), 0)
	if loc < 0 {
		return domain.MatchRegion{}, false
	}

	end := loc + len(string(probe))
	if end > len(m.layer.Text()) {
		end = len(m.layer.Text())
	}

	opts.Strategy = domain.StrategyBitap
	region, err := m.marker.MarkRange(loc, end, opts)
	if err != nil {
		logger.Debug("bitap recovery could not mark range [%d,%d): %v", loc, end, err)
		return domain.MatchRegion{}, false
	}
	logger.Debug("bitap recovery located fragment at offset %d", loc)
	return region, true
}

// Pattern aliases the driven port's compiled-pattern contract so the
// compile helpers stay decoupled from regexp in signatures.
type Pattern = driven.Pattern

// compileStrictPattern adapts CompileStrict to the markWith signature.
func compileStrictPattern(text string) (Pattern, error) {
	return CompileStrict(text)
}

// leadingWords returns the first n words of text, and whether the text
// actually had more than n words (otherwise a retry would repeat the
// failed pass).
func leadingWords(text string, n int) (string, bool) {
	words := strings.Fields(text)
	if len(words) <= n {
		return "", false
	}
	return strings.Join(words[:n], " "), true
}
