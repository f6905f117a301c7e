package matcher

import (
	"regexp"
	"strings"

	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/logger"
)

// footerRes recognise nodes whose entire trimmed text is a page-number
// artifact. Such nodes would otherwise satisfy every numeric pattern.
var footerRes = []*regexp.Regexp{
	// Roman numeral page labels up to a few characters ("iv", "XII").
	regexp.MustCompile(`(?i)^[ivxlcdm]{1,7}$`),

	// Bare page numbers.
	regexp.MustCompile(`^\d{1,4}$`),

	// Localised "Page N" labels.
	regexp.MustCompile(`(?i)^strona\s+\d{1,4}$`),
	regexp.MustCompile(`(?i)^(page|str\.?)\s+\d{1,4}$`),
}

// IsFooterText reports whether a node's trimmed text is a page-number
// artifact that must never carry a highlight.
func IsFooterText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, re := range footerRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// SuppressFooters scans the layer for page-number nodes and adds them to
// the marker's exclusion set. Returns the number of nodes excluded.
func SuppressFooters(layer driven.TextLayer, marker driven.TextMarker) int {
	excluded := 0
	for _, node := range layer.Nodes() {
		if IsFooterText(node.Text) {
			marker.ExcludeNode(node.ID)
			excluded++
		}
	}
	if excluded > 0 {
		logger.Debug("footer suppression excluded %d page-number nodes", excluded)
	}
	return excluded
}
