// Package docx builds text layers from DOCX documents. The document is
// an OPC zip; body text lives in word/document.xml as paragraphs of
// runs. Each paragraph becomes one layer node.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/layers/textlayer"
)

// Ensure Builder implements the interface.
var _ driven.LayerBuilder = (*Builder)(nil)

// Synthetic paragraph geometry: DOCX carries no rendered layout, so
// paragraphs stack with a fixed height and estimated width.
const (
	paraHeight = 18.0
	cellWidth  = 7.0
)

// Builder handles DOCX documents.
type Builder struct{}

// New creates a new DOCX builder.
func New() *Builder {
	return &Builder{}
}

// SupportedTypes returns the file types this builder handles.
func (b *Builder) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeDOCX}
}

// Priority returns the selection priority.
func (b *Builder) Priority() int {
	return 50 // Format-specific builder
}

// Build parses the DOCX archive into a text layer.
func (b *Builder) Build(_ context.Context, _ domain.FileRecord, content []byte) (driven.TextLayer, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive", domain.ErrInvalidInput)
	}

	paragraphs, err := extractParagraphs(reader)
	if err != nil {
		return nil, err
	}

	layer := textlayer.New()
	y := 0.0
	for i, text := range paragraphs {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		layer.Append(
			fmt.Sprintf("para-%d", i),
			text,
			domain.Rect{Y: y, W: float64(runewidth.StringWidth(text)) * cellWidth, H: paraHeight},
			0,
		)
		y += paraHeight
	}
	layer.MarkReady()
	return layer, nil
}

// extractParagraphs reads word/document.xml and returns paragraph texts.
func extractParagraphs(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable document.xml", domain.ErrInvalidInput)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable document.xml", domain.ErrInvalidInput)
		}

		return parseDocumentXML(content)
	}
	return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrInvalidInput)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts per-paragraph text from the document XML.
func parseDocumentXML(content []byte) ([]string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed document.xml", domain.ErrInvalidInput)
	}

	out := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
		out = append(out, b.String())
	}
	return out, nil
}
