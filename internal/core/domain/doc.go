// Package domain defines the core business entities for Orca.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies beyond uuid and defines the
// fundamental types:
//
//   - Record: A flat review/comment record with an optional reply-to pointer
//   - GroupStats: Per-discussion thread statistics
//   - Sample: A bounded rendered thread outline
//   - AnalysisReport: One analysis run's complete output
//   - Venue: A configured OpenReview venue to crawl
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any other internal/ package
package domain
