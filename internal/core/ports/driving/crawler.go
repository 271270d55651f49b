package driving

import (
	"context"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// Crawler drains a record source into the record store.
type Crawler interface {
	// Crawl fetches a venue's submissions and replies, normalises and
	// classifies them, and persists the result. Per-note failures are
	// counted, not fatal.
	Crawl(ctx context.Context, venue domain.Venue) (domain.CrawlCounts, error)
}

// DownloadRequest configures a PDF download run.
type DownloadRequest struct {
	// OutDir receives the PDFs.
	OutDir string

	// Workers bounds concurrent downloads. 0 means the default.
	Workers int
}

// Downloader fetches submission PDFs with a bounded worker pool.
type Downloader interface {
	// Download fetches every stored submission's PDF, skipping files
	// that already exist. Returns the number downloaded.
	Download(ctx context.Context, req DownloadRequest) (int, error)
}

// ParseRequest configures a PDF-to-Markdown parse run.
type ParseRequest struct {
	// InDir holds the PDFs.
	InDir string

	// TEIDir receives the intermediate TEI XML files.
	TEIDir string

	// OutDir receives the Markdown files.
	OutDir string

	// Workers bounds concurrent parser calls. 0 means the default.
	Workers int
}

// Parser converts downloaded PDFs into Markdown via the external
// document-parsing server.
type Parser interface {
	// ParseAll processes every PDF under InDir, skipping outputs that
	// already exist. Returns the number parsed and the number failed.
	ParseAll(ctx context.Context, req ParseRequest) (parsed, failed int, err error)
}
