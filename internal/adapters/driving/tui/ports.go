// Package tui provides the interactive terminal document viewer for
// citemark. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
)

// HighlighterFactory binds a highlighter to an acquired layer.
type HighlighterFactory func(rec domain.FileRecord, res *driving.AcquireResult) driving.Highlighter

// Ports aggregates the driving port implementations required by the
// viewer. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Acquisition fetches the document and builds its text layer.
	Acquisition driving.Acquisition

	// Highlighter binds a highlighter to the acquired layer.
	Highlighter HighlighterFactory

	// Reports persists run reports. Optional; the viewer skips saving
	// when nil.
	Reports driven.ReportStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Acquisition == nil {
		return ErrMissingAcquisition
	}
	if p.Highlighter == nil {
		return ErrMissingHighlighter
	}
	return nil
}
