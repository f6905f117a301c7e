// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextLayer: The rendered document surface being matched and marked
//   - TextMarker: Applies and removes highlight marks on a layer
//   - LayerBuilder: Builds a text layer from raw document bytes
//   - LayerRegistry: Selects the appropriate builder per document type
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Fetcher: Retrieves document bytes by URL (local paths work without it)
//   - ReportStore: Persists highlight run reports. Without it, not-found
//     diagnostics live only for the session.
//   - ConfigStore: Tunable thresholds. Without it, compiled defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or layer package
package driven
