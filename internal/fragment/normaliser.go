// Package fragment normalises citation strings into bounded match units.
package fragment

import (
	"regexp"
	"strings"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// MaxWords is the fragment size above which a sentence is re-chunked.
const MaxWords = 16

// ChunkWords is the target size of re-chunked pieces.
const ChunkWords = 12

// MinTailWords is the smallest acceptable trailing chunk; shorter tails
// are merged into the previous chunk to avoid over-eager matches on
// generic short phrases.
const MinTailWords = 8

// minFragmentLen is the shortest fragment kept after trimming. Anything
// at or below this is OCR noise.
const minFragmentLen = 3

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// enumeratorOnlyRe matches citations that are a bare list marker:
	// optional "(" or "§", 1-4 digits, optional ")" "." or "-".
	enumeratorOnlyRe = regexp.MustCompile(`^[(§]?(\d{1,4})[).\-]?$`)

	// enumeratorPrefixRe matches a leading list marker followed by text.
	enumeratorPrefixRe = regexp.MustCompile(`^[(§]?(\d{1,4})[).\-]\s+(.+)$`)

	// sentenceEndRe finds sentence boundaries: a terminator followed by
	// whitespace. The terminator stays with the preceding sentence.
	sentenceEndRe = regexp.MustCompile(`[.?!]\s+`)
)

// Normalise turns one citation into its matchable fragments.
//
// The output is never empty for non-blank input unless every piece was
// dropped as noise; callers must treat that case as "unmatchable", not
// as an error.
func Normalise(c domain.Citation) []domain.Fragment {
	text := Collapse(c.Text)
	if text == "" {
		return nil
	}

	// Enumerator-only citations get a dedicated numeric pattern and
	// skip the text pipeline entirely.
	if m := enumeratorOnlyRe.FindStringSubmatch(text); m != nil {
		return []domain.Fragment{{
			CitationID: c.ID,
			Text:       m[1],
			Kind:       domain.FragmentEnumerator,
		}}
	}

	// A leading enumerator with trailing text is folded back in as a
	// plain number token so "8) Wykonawca..." matches "8 Wykonawca".
	if m := enumeratorPrefixRe.FindStringSubmatch(text); m != nil {
		text = m[1] + " " + m[2]
	}

	var out []domain.Fragment
	for _, sentence := range splitSentences(text) {
		for _, piece := range chunk(sentence) {
			piece = strings.TrimSpace(piece)
			if len(piece) <= minFragmentLen {
				continue
			}
			out = append(out, domain.Fragment{
				CitationID: c.ID,
				Text:       piece,
				Kind:       domain.FragmentText,
			})
		}
	}
	return out
}

// Collapse reduces all whitespace runs to single spaces and trims.
func Collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// splitSentences splits on terminator-plus-whitespace boundaries,
// keeping the terminator with its sentence.
func splitSentences(text string) []string {
	locs := sentenceEndRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var sentences []string
	start := 0
	for _, loc := range locs {
		// loc[0]+1 keeps the terminator character on the left side.
		sentences = append(sentences, strings.TrimSpace(text[start:loc[0]+1]))
		start = loc[1]
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// chunk re-chunks an oversized sentence into ~ChunkWords pieces,
// merging a too-small trailing chunk into its predecessor.
func chunk(sentence string) []string {
	words := strings.Fields(sentence)
	if len(words) <= MaxWords {
		return []string{sentence}
	}

	var chunks [][]string
	for start := 0; start < len(words); start += ChunkWords {
		end := start + ChunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[start:end])
	}

	// Merge an undersized tail rather than emitting a weak fragment.
	if n := len(chunks); n > 1 && len(chunks[n-1]) < MinTailWords {
		chunks[n-2] = append(chunks[n-2], chunks[n-1]...)
		chunks = chunks[:n-1]
	}

	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = strings.Join(c, " ")
	}
	return out
}
