package domain

import (
	"path/filepath"
	"strconv"
	"strings"
)

// FileType identifies the document format of a file record.
type FileType string

// Supported document formats.
const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeDOC  FileType = "doc"
	FileTypeODT  FileType = "odt"
	FileTypeTXT  FileType = "txt"
	FileTypeHTML FileType = "html"
)

// FileRecord is the external contract describing a previewable document.
// The analysis backend attaches pre-fetched citations to the record;
// they are opaque strings to everything but the fragment normaliser.
type FileRecord struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Type      FileType `json:"type"`
	URL       string   `json:"url"`
	BlobURL   string   `json:"blob_url,omitempty"`
	Citations []string `json:"citations,omitempty"`
}

// CitationList wraps the raw citation strings into Citation values with
// session-scoped ordinal IDs. Blank entries are dropped here so they
// never count towards pass totals.
func (f FileRecord) CitationList() []Citation {
	out := make([]Citation, 0, len(f.Citations))
	for i, text := range f.Citations {
		c := Citation{ID: ordinalID(f.ID, i), Text: text}
		if c.IsBlank() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FileTypeFromPath guesses the file type from a path extension.
// Unknown extensions fall back to plain text.
func FileTypeFromPath(path string) FileType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "pdf":
		return FileTypePDF
	case "docx":
		return FileTypeDOCX
	case "doc":
		return FileTypeDOC
	case "odt":
		return FileTypeODT
	case "html", "htm":
		return FileTypeHTML
	default:
		return FileTypeTXT
	}
}

func ordinalID(fileID string, i int) string {
	return fileID + "-c" + strconv.Itoa(i)
}
