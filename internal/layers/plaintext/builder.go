// Package plaintext builds text layers from plain text, and acts as the
// best-effort fallback for legacy formats without a dedicated parser.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/layers/textlayer"
)

// Ensure Builder implements the interface.
var _ driven.LayerBuilder = (*Builder)(nil)

// Synthetic geometry for unpaged text: one node per line, fixed line
// height, width estimated from display cells.
const (
	lineHeight = 16.0
	cellWidth  = 7.0
)

// Builder handles plain text documents.
type Builder struct{}

// New creates a new plain text builder.
func New() *Builder {
	return &Builder{}
}

// SupportedTypes returns the file types this builder handles. Legacy
// DOC and ODT are claimed as a fallback: printable text is salvaged
// from them without format-aware parsing.
func (b *Builder) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeTXT, domain.FileTypeDOC, domain.FileTypeODT}
}

// Priority returns the selection priority.
func (b *Builder) Priority() int {
	return 1 // Fallback builder
}

// Build splits the content into lines, one layer node each.
func (b *Builder) Build(_ context.Context, rec domain.FileRecord, content []byte) (driven.TextLayer, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}

	text := string(content)
	if rec.Type != domain.FileTypeTXT {
		text = salvagePrintable(text)
	}

	layer := textlayer.New()
	y := 0.0
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		layer.Append(
			fmt.Sprintf("line-%d", i),
			line,
			domain.Rect{Y: y, W: float64(runewidth.StringWidth(line)) * cellWidth, H: lineHeight},
			0,
		)
		y += lineHeight
	}
	layer.MarkReady()
	return layer, nil
}

// salvagePrintable strips control bytes from binary-ish legacy formats,
// keeping runs of printable text separated by newlines.
func salvagePrintable(s string) string {
	var b strings.Builder
	run := 0
	for _, r := range s {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			b.WriteRune(r)
			run++
			continue
		}
		if run > 0 {
			b.WriteByte('\n')
			run = 0
		}
	}
	return b.String()
}
