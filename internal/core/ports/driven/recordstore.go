package driven

import (
	"context"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// RecordStore persists normalised records between the crawl and
// analysis stages.
type RecordStore interface {
	// SaveRecords appends records of one kind.
	SaveRecords(ctx context.Context, kind domain.RecordKind, records []domain.Record) error

	// LoadRecords returns all records of one kind in stored order.
	LoadRecords(ctx context.Context, kind domain.RecordKind) ([]domain.Record, error)

	// LoadAll returns every stored record in stored order,
	// submissions first, then reviews, meta-reviews, decisions, comments.
	LoadAll(ctx context.Context) ([]domain.Record, error)
}

// ReportStore persists finished analysis reports.
type ReportStore interface {
	// SaveReport stores a completed run.
	SaveReport(ctx context.Context, report *domain.AnalysisReport) error

	// GetReport retrieves a run by id.
	GetReport(ctx context.Context, runID string) (*domain.AnalysisReport, error)

	// ListReports returns stored runs, newest first.
	ListReports(ctx context.Context) ([]domain.AnalysisReport, error)
}

// CrawlStateStore persists resumable crawl cursors.
type CrawlStateStore interface {
	// Get retrieves the crawl state for a venue.
	// Returns domain.ErrNotFound if no crawl has run.
	Get(ctx context.Context, venueID string) (*domain.CrawlState, error)

	// Save stores the crawl state for a venue.
	Save(ctx context.Context, state domain.CrawlState) error
}
