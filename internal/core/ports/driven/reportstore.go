package driven

import (
	"context"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// ReportStore persists highlight run reports for auditing. The match
// entities themselves are session-scoped and rebuilt on every input
// change; only the per-citation outcome summary is stored.
type ReportStore interface {
	// SaveRun records a completed highlight run.
	SaveRun(ctx context.Context, run domain.RunReport) error

	// ListRuns returns runs for a file, newest first.
	ListRuns(ctx context.Context, fileID string) ([]domain.RunReport, error)

	// GetRun returns one run by ID, or domain.ErrNotFound.
	GetRun(ctx context.Context, id string) (domain.RunReport, error)

	// DeleteRuns removes all stored runs for a file.
	DeleteRuns(ctx context.Context, fileID string) error

	// Close releases the underlying storage.
	Close() error
}

// ConfigStore provides tunable configuration values.
type ConfigStore interface {
	// Get retrieves a raw value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value ("" when absent).
	GetString(key string) string

	// GetInt retrieves an integer value (0 when absent).
	GetInt(key string) int

	// GetFloat retrieves a float value (0 when absent).
	GetFloat(key string) float64

	// GetBool retrieves a boolean value (false when absent).
	GetBool(key string) bool

	// IntOr returns the configured integer or the default when unset.
	IntOr(key string, def int) int

	// FloatOr returns the configured float or the default when unset.
	FloatOr(key string, def float64) float64

	// Set stores a value and persists it.
	Set(key string, value any) error
}
