package domain

import "strings"

// Citation is an opaque, backend-supplied snippet of text asserting
// where in the document a claim came from. No internal structure is
// guaranteed: it may carry enumerator prefixes ("8)", "§4."), several
// sentences, or OCR artifacts. Citations are immutable once attached
// to a file record.
type Citation struct {
	// ID identifies the citation within one preview session.
	ID string

	// Text is the raw citation string as supplied by the backend.
	Text string
}

// IsBlank reports whether the citation carries no matchable content.
// Blank citations are skipped silently and excluded from pass totals.
func (c Citation) IsBlank() bool {
	return strings.TrimSpace(c.Text) == ""
}

// FragmentKind distinguishes ordinary text fragments from the special
// enumerator-only case ("8)", "§12.") which matches a word-boundary
// anchored number instead of a token sequence.
type FragmentKind int

const (
	// FragmentText is a normalised run of words matched with gap patterns.
	FragmentText FragmentKind = iota

	// FragmentEnumerator is a bare list-marker citation matched with a
	// dedicated numeric boundary pattern.
	FragmentEnumerator
)

// Fragment is a normalised sub-unit of a citation sized to 8-16 words,
// produced by sentence splitting and re-chunking. Fragments exist only
// transiently during a highlight pass; they are never persisted.
type Fragment struct {
	// CitationID links back to the owning citation. Empty for fragments
	// built from a live search query.
	CitationID string

	// Text is the normalised fragment content.
	Text string

	// Kind selects the matching strategy family.
	Kind FragmentKind
}

// WordCount returns the number of whitespace-delimited tokens.
func (f Fragment) WordCount() int {
	return len(strings.Fields(f.Text))
}
