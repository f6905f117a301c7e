package tui

import "errors"

// Port validation errors.
var (
	// ErrMissingAcquisition indicates the acquisition port was not provided.
	ErrMissingAcquisition = errors.New("acquisition service is required")

	// ErrMissingHighlighter indicates the highlighter factory was not provided.
	ErrMissingHighlighter = errors.New("highlighter factory is required")
)
