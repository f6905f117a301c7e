// Package pdf builds text layers from PDF documents. Pages are rendered
// asynchronously: Build returns a layer immediately and a background
// goroutine appends line nodes page by page, marking the layer ready
// when layout completes. Callers gate on readiness before matching.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/layers/textlayer"
	"github.com/offerta-labs/citemark/internal/logger"
)

// Ensure Builder implements the interface.
var _ driven.LayerBuilder = (*Builder)(nil)

// pageHeight is the nominal page height (A4 in points) used to flip the
// PDF's bottom-up Y axis into the layer's top-down coordinates.
const pageHeight = 842.0

// lineQuantum groups positioned text items into lines: items whose Y
// differs by less than this many points share a line.
const lineQuantum = 2.0

// lineHeight is the nominal rendered line height in points.
const lineHeight = 12.0

// Builder handles PDF documents.
type Builder struct{}

// New creates a new PDF builder.
func New() *Builder {
	return &Builder{}
}

// SupportedTypes returns the file types this builder handles.
func (b *Builder) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypePDF}
}

// Priority returns the selection priority.
func (b *Builder) Priority() int {
	return 60 // Positioned text beats any fallback
}

// Build opens the PDF and starts the background page renderer. The
// returned layer is not ready until every page has been laid out.
func (b *Builder) Build(ctx context.Context, _ domain.FileRecord, content []byte) (driven.TextLayer, error) {
	reader, err := lpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	layer := textlayer.New()
	go renderPages(ctx, reader, layer)
	return layer, nil
}

// renderPages appends line nodes for every page, then marks the layer
// ready. Malformed pages are skipped; the library is known to panic on
// them, so each page parse is isolated.
func renderPages(ctx context.Context, reader *lpdf.Reader, layer *textlayer.Layer) {
	defer layer.MarkReady()

	pages := pageCount(reader)
	for i := 1; i <= pages; i++ {
		if ctx.Err() != nil {
			logger.Debug("pdf render cancelled at page %d/%d", i, pages)
			return
		}

		lines, ok := pageLines(reader, i)
		if !ok {
			logger.Warn("pdf page %d could not be parsed, skipping", i)
			continue
		}

		offset := float64(i-1) * pageHeight
		for j, line := range lines {
			layer.Append(
				fmt.Sprintf("p%d-l%d", i, j),
				line.text,
				domain.Rect{X: line.x, Y: offset + line.y, W: line.w, H: lineHeight},
				i,
			)
		}
	}
}

// pageCount reads NumPage behind a recover, as malformed cross-reference
// tables make the library panic.
func pageCount(reader *lpdf.Reader) (pages int) {
	defer func() { _ = recover() }()
	return reader.NumPage()
}

// line is one assembled text line with top-down layer geometry.
type line struct {
	text string
	x    float64
	y    float64
	w    float64
}

// pageLines extracts positioned text from one page and assembles it
// into lines, top of page first.
func pageLines(reader *lpdf.Reader, pageNum int) (lines []line, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			lines, ok = nil, false
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, false
	}

	items := page.Content().Text
	if len(items) == 0 {
		return nil, true
	}

	// Group items into lines by quantised Y.
	sort.SliceStable(items, func(i, j int) bool {
		if diff := items[i].Y - items[j].Y; diff > lineQuantum || diff < -lineQuantum {
			return items[i].Y > items[j].Y // PDF Y grows upwards
		}
		return items[i].X < items[j].X
	})

	var cur line
	started := false
	flush := func() {
		if started && cur.text != "" {
			lines = append(lines, cur)
		}
	}

	lastY := 0.0
	for _, item := range items {
		if item.S == "" {
			continue
		}
		if !started || item.Y < lastY-lineQuantum || item.Y > lastY+lineQuantum {
			flush()
			cur = line{x: item.X, y: pageHeight - item.Y}
			started = true
			lastY = item.Y
		}
		cur.text += item.S
		if right := item.X + item.W - cur.x; right > cur.w {
			cur.w = right
		}
	}
	flush()
	return lines, true
}
