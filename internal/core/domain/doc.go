// Package domain defines the core business entities for Citemark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Citation: A backend-supplied provenance snippet to locate in a document
//   - Fragment: A normalised, size-bounded match unit derived from a citation
//   - MatchRegion: One located occurrence anchored to the text layer
//   - HighlightGroup: Spatially merged regions forming one logical occurrence
//   - NavigationState: The active-highlight pointer and its ordered list
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
