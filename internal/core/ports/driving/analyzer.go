package driving

import (
	"context"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// AnalyzeRequest configures one analysis run.
type AnalyzeRequest struct {
	// InputDir holds the crawled JSONL files. Empty means "use the
	// configured record store".
	InputDir string

	// OutDir receives the report artifacts. Empty disables file output.
	OutDir string

	// MaxLines caps the rendered sample. 0 means the default.
	MaxLines int

	// SnippetLen is the excerpt budget in runes. 0 means the default.
	SnippetLen int

	// FieldOrder lists candidate snippet fields tried first.
	FieldOrder []string
}

// AnalyzeStatus reports a running or finished analysis.
type AnalyzeStatus struct {
	RunID       string
	Running     bool
	RecordCount int
	GroupCount  int
}

// Analyzer runs the thread reconstruction pipeline over a record
// snapshot and emits reports.
type Analyzer interface {
	// Analyze executes one full run. Dirty input yields partial
	// results and diagnostics, never an error; only infrastructure
	// failures (unreadable input, unwritable output) are errors.
	Analyze(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisReport, error)

	// Status returns the state of the most recent run for an input dir.
	Status(ctx context.Context, inputDir string) (*AnalyzeStatus, error)
}
