package matcher

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// suggestProbeWords bounds the probe used for nearest-line lookup; full
// fragments are too long for a useful subsequence match.
const suggestProbeWords = 6

// maxSuggestionLen keeps suggestions readable in the not-found banner.
const maxSuggestionLen = 120

// Suggest returns the layer line most similar to the fragment text, for
// the "did you mean" hint next to a not-found citation. Empty when
// nothing in the layer resembles the fragment.
func Suggest(layerText, fragmentText string) string {
	words := strings.Fields(fragmentText)
	if len(words) == 0 {
		return ""
	}
	if len(words) > suggestProbeWords {
		words = words[:suggestProbeWords]
	}
	probe := strings.Join(words, " ")

	var lines []string
	for _, line := range strings.Split(layerText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	matches := fuzzy.Find(probe, lines)
	if len(matches) == 0 {
		return ""
	}

	best := matches[0].Str
	if len(best) > maxSuggestionLen {
		best = best[:maxSuggestionLen] + "…"
	}
	return best
}
