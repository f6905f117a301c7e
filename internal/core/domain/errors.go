package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document type or layer builder.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLayerNotReady indicates the text layer has not finished rendering.
	// Matching against a layer in this state produces false negatives.
	ErrLayerNotReady = errors.New("text layer not ready")

	// ErrPassSuperseded indicates a highlight pass was replaced by a newer
	// generation before it completed. Its results must be discarded.
	ErrPassSuperseded = errors.New("highlight pass superseded")

	// ErrFetchFailed indicates the document bytes could not be retrieved.
	// This is the only failure class surfaced to the caller as an error;
	// matching failures downgrade to not-found entries instead.
	ErrFetchFailed = errors.New("document fetch failed")
)
