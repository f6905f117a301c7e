package driven

import (
	"context"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// LayerBuilder constructs a text layer from raw document bytes.
// Each builder handles specific file types (PDF, DOCX, plain text).
type LayerBuilder interface {
	// SupportedTypes returns the file types this builder handles.
	SupportedTypes() []domain.FileType

	// Priority returns the selection priority (higher = preferred).
	// Format-specific builders should return 50-89.
	// Fallback builders should return 1-9.
	Priority() int

	// Build parses the document bytes into a text layer. Page-rendered
	// formats may return a layer that is not Ready() yet.
	Build(ctx context.Context, rec domain.FileRecord, content []byte) (TextLayer, error)
}

// LayerRegistry selects the appropriate builder for a document.
type LayerRegistry interface {
	// BuilderFor returns the highest-priority builder supporting the
	// file type, or domain.ErrUnsupportedType.
	BuilderFor(t domain.FileType) (LayerBuilder, error)

	// Register adds a builder to the registry.
	Register(b LayerBuilder)
}

// Fetcher retrieves document bytes for a file record.
type Fetcher interface {
	// Fetch resolves the record's URL (falling back to BlobURL) and
	// returns the raw document bytes.
	Fetch(ctx context.Context, rec domain.FileRecord) ([]byte, error)
}
