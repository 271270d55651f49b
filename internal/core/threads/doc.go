// Package threads reconstructs reply trees from flat review/comment
// records and derives per-discussion statistics from them.
//
// The pipeline is a single deterministic pass over an in-memory record
// snapshot:
//
//	NewRecordSet -> BuildForest -> ResolveDepths -> AggregateGroups
//	                                             -> RenderSample
//
// Every stage is pure: it holds no state across invocations and performs
// no I/O. Dirty input (missing ids, unresolvable or cyclic reply
// pointers, duplicate ids) never produces an error; it produces partial
// results plus diagnostics counters.
//
// # Import Rules
//
//   - Can Import: Standard library, internal/core/domain
//   - Cannot Import: Any adapter or connector package
package threads
