package domain

import (
	"time"

	"github.com/google/uuid"
)

// GroupStats holds thread statistics for one discussion group.
type GroupStats struct {
	// GroupID is the forum/discussion identifier.
	GroupID string

	// RecordCount is the number of records in the group.
	RecordCount int

	// RootCount is the number of members with no resolvable parent
	// inside the group's own member set.
	RootCount int

	// MaxDepth is the deepest reply level among members.
	MaxDepth int

	// MeanDepth is the arithmetic mean of member depths,
	// rounded to 3 decimal places.
	MeanDepth float64
}

// Sample is the bounded human-readable thread outline.
type Sample struct {
	// Text is the line-oriented, indentation-encoded outline.
	Text string

	// Lines is the number of rendered lines.
	Lines int

	// Truncated reports whether rendering stopped at the line ceiling
	// before all groups were walked.
	Truncated bool
}

// Diagnostics counts data-shape problems tolerated during a run.
// None of these are errors; they exist so callers can detect corrupt
// input sources.
type Diagnostics struct {
	// Dropped is the number of records excluded for lacking a usable id.
	Dropped int

	// Duplicates is the number of records ignored because an earlier
	// record already claimed their id.
	Duplicates int

	// Unreached is the number of indexed records no root could reach,
	// which only happens under cyclic reply pointers. They are reported
	// with depth 0.
	Unreached int
}

// AnalysisReport is the complete output of one analysis run over a
// record snapshot. It is never mutated after the run completes.
type AnalysisReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// Stats is ordered by record count desc, max depth desc, group id asc.
	Stats []GroupStats

	// Sample is the rendered thread outline preview.
	Sample Sample

	// Diagnostics counts tolerated input defects.
	Diagnostics Diagnostics

	// RecordCount is the number of records analysed after normalisation.
	RecordCount int

	// CreatedAt is when the run finished.
	CreatedAt time.Time
}

// NewRunID returns a fresh analysis run identifier.
func NewRunID() string {
	return uuid.NewString()
}
