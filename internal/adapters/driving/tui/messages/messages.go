// Package messages defines Bubbletea message types for the viewer.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
)

// LayerAcquired carries the acquired text layer back to the model.
type LayerAcquired struct {
	Result *driving.AcquireResult
	Err    error
}

// PassProgress reports sequential citation pass progress.
type PassProgress struct {
	Processed int
	Total     int
}

// PassCompleted carries the citation run report back to the model.
type PassCompleted struct {
	Report domain.RunReport
	Err    error
}

// SearchCompleted signals a search pass finished.
type SearchCompleted struct {
	Query string
	Err   error
}

// ScrollTo requests that a highlight group be scrolled into view.
type ScrollTo struct {
	Group domain.HighlightGroup
}

// ReportSaved signals the run report was persisted.
type ReportSaved struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
