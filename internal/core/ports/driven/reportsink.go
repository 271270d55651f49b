package driven

import (
	"context"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// ReportData is everything a sink needs to materialise one run:
// the engine's outputs plus the record snapshot they were derived from
// (the enrichment CSVs recompute word counts from record fields).
type ReportData struct {
	Report      *domain.AnalysisReport
	Submissions []domain.Record
	Reviews     []domain.Record
	Decisions   []domain.Record
}

// ReportSink materialises an analysis run into files (CSV tables and
// Markdown documents). File formats are the sink's concern, never the
// engine's.
type ReportSink interface {
	// Write emits all report artifacts under dir.
	Write(ctx context.Context, dir string, data *ReportData) error
}
