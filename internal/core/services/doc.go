// Package services implements the driving port interfaces.
// Services contain the core business logic: the layer builder registry,
// the acquisition pipeline with its readiness gate, and the highlight
// manager that runs citation passes and owns navigation state.
package services
