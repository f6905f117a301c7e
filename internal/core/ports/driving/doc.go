// Package driving defines the interfaces external actors use to drive core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI and TUI adapters call these interfaces; core services
// implement them.
//
// # Import Rules
//
//   - Can Import: domain and driven port packages only
//   - Cannot Import: Any adapter or layer package
package driving
