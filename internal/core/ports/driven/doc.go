// Package driven defines the driven ports (secondary adapters' contracts)
// for Orca.
//
// Driven ports are interfaces the core services depend on and
// infrastructure adapters implement: the record source (the OpenReview
// connector), record and report persistence, report emission, PDF
// fetching and the external document parser.
//
// # Import Rules
//
//   - Can Import: Standard library, internal/core/domain
//   - Cannot Import: Adapters, connectors, services
package driven
