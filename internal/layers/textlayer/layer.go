// Package textlayer provides the in-memory text layer shared by all
// document builders, plus the marker that applies highlight regions to
// it. Builders append text-bearing nodes with their geometry; the layer
// exposes the linearised text that matching runs against.
package textlayer

import (
	"strings"
	"sync"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
)

// Ensure Layer implements the interface.
var _ driven.TextLayer = (*Layer)(nil)

// Layer is an append-only sequence of text-bearing nodes. Builders for
// page-rendered formats append nodes page by page and call MarkReady
// when layout is complete; the readiness gate polls Ready, Text length
// and NodeCount until then.
type Layer struct {
	mu    sync.RWMutex
	nodes []driven.LayerNode
	text  strings.Builder
	ready bool
}

// New creates an empty, not-yet-ready layer.
func New() *Layer {
	return &Layer{}
}

// Append adds one node to the layer. Node text is separated by a
// newline in the linearised text so matches never bleed across nodes
// through the strict gap alone.
func (l *Layer) Append(id, text string, rect domain.Rect, page int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.text.Len() > 0 {
		l.text.WriteByte('\n')
	}
	start := l.text.Len()
	l.text.WriteString(text)

	l.nodes = append(l.nodes, driven.LayerNode{
		ID:    id,
		Text:  text,
		Start: start,
		End:   start + len(text),
		Rect:  rect,
		Page:  page,
	})
}

// MarkReady flags the layer as fully rendered.
func (l *Layer) MarkReady() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ready = true
}

// Text returns the linearised text content of the whole layer.
func (l *Layer) Text() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.text.String()
}

// Nodes returns a copy of all nodes in text order.
func (l *Layer) Nodes() []driven.LayerNode {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]driven.LayerNode, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// NodeCount returns the number of text-bearing nodes.
func (l *Layer) NodeCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.nodes)
}

// SpanNodes returns the nodes overlapping the [start, end) byte range
// of the linearised text, in text order.
func (l *Layer) SpanNodes(start, end int) []driven.LayerNode {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []driven.LayerNode
	for _, n := range l.nodes {
		if n.Start < end && n.End > start {
			out = append(out, n)
		}
	}
	return out
}

// Ready reports whether the layer has finished rendering.
func (l *Layer) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ready
}
