// Package html builds text layers from HTML documents by walking the
// parsed node tree. Each block-level element with text becomes one
// layer node; script, style and head subtrees are skipped entirely.
package html

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/layers/textlayer"
)

// Ensure Builder implements the interface.
var _ driven.LayerBuilder = (*Builder)(nil)

const (
	blockHeight = 18.0
	cellWidth   = 7.0
)

// skipped subtrees carry no user-visible text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Svg:      true,
	atom.Template: true,
}

// blocks are the elements that close a text node boundary.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Blockquote: true,
	atom.Pre: true, atom.Table: true, atom.Section: true,
	atom.Article: true, atom.Br: true, atom.Hr: true,
}

// Builder handles HTML documents.
type Builder struct{}

// New creates a new HTML builder.
func New() *Builder {
	return &Builder{}
}

// SupportedTypes returns the file types this builder handles.
func (b *Builder) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeHTML}
}

// Priority returns the selection priority.
func (b *Builder) Priority() int {
	return 50 // Format-specific builder
}

// Build parses the HTML into a text layer.
func (b *Builder) Build(_ context.Context, _ domain.FileRecord, content []byte) (driven.TextLayer, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed html", domain.ErrInvalidInput)
	}

	w := &walker{layer: textlayer.New()}
	w.walk(root)
	w.flush()
	w.layer.MarkReady()
	return w.layer, nil
}

// walker accumulates inline text and emits a layer node at every block
// boundary.
type walker struct {
	layer *textlayer.Layer
	buf   strings.Builder
	n     int
	y     float64
}

func (w *walker) walk(node *html.Node) {
	if node.Type == html.ElementNode && skipped[node.DataAtom] {
		return
	}

	if node.Type == html.TextNode {
		w.buf.WriteString(node.Data)
		w.buf.WriteByte(' ')
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}

	if node.Type == html.ElementNode && blocks[node.DataAtom] {
		w.flush()
	}
}

// flush emits the accumulated text as one node, if any.
func (w *walker) flush() {
	text := strings.Join(strings.Fields(w.buf.String()), " ")
	w.buf.Reset()
	if text == "" {
		return
	}

	w.layer.Append(
		fmt.Sprintf("block-%d", w.n),
		text,
		domain.Rect{Y: w.y, W: float64(runewidth.StringWidth(text)) * cellWidth, H: blockHeight},
		0,
	)
	w.n++
	w.y += blockHeight
}
