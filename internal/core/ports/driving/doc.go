// Package driving defines the driving ports (primary adapters'
// contracts) for Orca: the operations the CLI, TUI and MCP adapters
// invoke on the core services.
//
// # Import Rules
//
//   - Can Import: Standard library, internal/core/domain
//   - Cannot Import: Adapters, connectors, services
package driving
