// Package matcher compiles tolerant search patterns and runs the
// strict/loose/prefix/bitap matching passes against a text layer.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// DefaultLooseGapCap bounds the any-character gap of the loose pattern.
// Insertions beyond this length are deliberately not bridged.
const DefaultLooseGapCap = 600

// strictGap tolerates the noise PDF extraction injects between tokens:
// whitespace, punctuation, symbols and stray digits (hyphenation,
// line-wrap artifacts, soft page breaks).
const strictGap = `[\s\p{P}\p{S}\p{N}]*`

// tokenRe extracts Unicode-aware alphanumeric tokens.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokens returns the alphanumeric tokens of a pattern text.
func Tokens(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// CompileStrict builds the first-pass pattern: tokens joined by the
// bounded-class gap, case-insensitive, diacritic-tolerant.
func CompileStrict(text string) (*regexp.Regexp, error) {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens in %q", domain.ErrInvalidInput, text)
	}

	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = foldToken(tok)
	}
	return regexp.Compile(`(?i)` + strings.Join(parts, strictGap))
}

// CompileLoose builds the fallback pattern: tokens joined by an
// any-character gap capped at gapCap runes. Trades precision for recall
// on badly OCR'd or reflowed text.
func CompileLoose(text string, gapCap int) (*regexp.Regexp, error) {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens in %q", domain.ErrInvalidInput, text)
	}
	if gapCap <= 0 {
		gapCap = DefaultLooseGapCap
	}

	gap := fmt.Sprintf(`[\s\S]{0,%d}?`, gapCap)
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = foldToken(tok)
	}
	return regexp.Compile(`(?i)` + strings.Join(parts, gap))
}

// CompileNumeric builds the word-boundary anchored pattern for
// enumerator-only citations. The digits must stand alone: "8" inside
// "ustawa8a" never satisfies it.
func CompileNumeric(num string) (*regexp.Regexp, error) {
	if !regexp.MustCompile(`^\d{1,4}$`).MatchString(num) {
		return nil, fmt.Errorf("%w: enumerator %q", domain.ErrInvalidInput, num)
	}
	return regexp.Compile(`\b` + regexp.QuoteMeta(num) + `\b[).\-]?`)
}

// foldToken renders a token as a regex that also accepts the base form
// of each diacritic rune, so "sprzętu" still matches OCR output that
// dropped the ogonek ("sprzetu").
func foldToken(tok string) string {
	var b strings.Builder
	for _, r := range tok {
		base := baseRune(r)
		if base == r {
			b.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		b.WriteString(`[`)
		b.WriteString(regexp.QuoteMeta(string(r)))
		b.WriteString(regexp.QuoteMeta(string(base)))
		b.WriteString(`]`)
	}
	return b.String()
}

// strokeFold maps the handful of letters whose diacritic is a stroke
// rather than a combining mark, which NFD cannot strip.
var strokeFold = map[rune]rune{
	'ł': 'l', 'Ł': 'L',
	'ø': 'o', 'Ø': 'O',
	'đ': 'd', 'Đ': 'D',
}

// baseRune strips the diacritic from a rune: combining marks via NFD
// decomposition (ą -> a), stroked letters via the fold table (ł -> l).
func baseRune(r rune) rune {
	if base, ok := strokeFold[r]; ok {
		return base
	}
	decomposed := norm.NFD.String(string(r))
	for _, d := range decomposed {
		if !unicode.Is(unicode.Mn, d) {
			return d
		}
	}
	return r
}
