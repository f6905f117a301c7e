package driving

import (
	"context"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
)

// AcquireResult carries the built text layer plus readiness diagnostics.
type AcquireResult struct {
	// Layer is the rendered document surface.
	Layer driven.TextLayer

	// Degraded is true when the readiness gate timed out and matching
	// will run against possibly partial text.
	Degraded bool
}

// Acquisition fetches a document, builds its text layer and waits for
// the readiness gate before matching may run.
type Acquisition interface {
	// Acquire resolves the record to a ready (or degraded) text layer.
	// Only failures at this stage surface as user-visible errors; the
	// matching pipeline downgrades its own failures to not-found.
	Acquire(ctx context.Context, rec domain.FileRecord) (*AcquireResult, error)
}
