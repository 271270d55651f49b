package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// DefaultDownloadWorkers bounds concurrent PDF fetches.
const DefaultDownloadWorkers = 4

// Ensure Downloader implements the interface.
var _ driving.Downloader = (*Downloader)(nil)

// Downloader fetches stored submissions' PDFs with a bounded worker
// pool.
type Downloader struct {
	records driven.RecordStore
	fetcher driven.PDFFetcher
}

// NewDownloader creates a PDF download service.
func NewDownloader(records driven.RecordStore, fetcher driven.PDFFetcher) *Downloader {
	return &Downloader{records: records, fetcher: fetcher}
}

// Download fetches every stored submission's PDF into req.OutDir,
// skipping files that already exist. Notes without a PDF are skipped
// silently; other fetch failures are logged and skipped.
func (d *Downloader) Download(ctx context.Context, req driving.DownloadRequest) (int, error) {
	if req.OutDir == "" {
		return 0, fmt.Errorf("%w: empty output directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(req.OutDir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	subs, err := d.records.LoadRecords(ctx, domain.KindSubmission)
	if err != nil {
		return 0, fmt.Errorf("load submissions: %w", err)
	}
	if len(subs) == 0 {
		return 0, domain.ErrNoRecords
	}

	workers := req.Workers
	if workers <= 0 {
		workers = DefaultDownloadWorkers
	}

	logger.Section("Downloading %d PDFs with %d workers", len(subs), workers)

	var downloaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range subs {
		sub := subs[i]
		g.Go(func() error {
			path := filepath.Join(req.OutDir, sanitizeFilename(sub.ID)+".pdf")
			if _, err := os.Stat(path); err == nil {
				logger.Debug("Skipping %s: already exists", sub.ID)
				return nil
			}

			pdf, err := d.fetcher.FetchPDF(gctx, sub.ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("No PDF for %s: %v", sub.ID, err)
				return nil
			}
			if err := os.WriteFile(path, pdf, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			downloaded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(downloaded.Load()), err
	}
	return int(downloaded.Load()), nil
}

// sanitizeFilename replaces path separators in note ids, which can
// contain slashes.
func sanitizeFilename(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		switch r {
		case '/', '\\', ':':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
