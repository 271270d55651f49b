package services

import (
	"context"
	"fmt"
	"time"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// flushEvery bounds how many records accumulate per kind before a
// batch write.
const flushEvery = 200

// Ensure Crawler implements the interface.
var _ driving.Crawler = (*Crawler)(nil)

// Crawler drains a record source into the record store.
type Crawler struct {
	source     driven.RecordSource
	normaliser driven.NoteNormaliser
	records    driven.RecordStore
	states     driven.CrawlStateStore
}

// NewCrawler creates a crawl service. states may be nil to skip cursor
// persistence.
func NewCrawler(
	source driven.RecordSource,
	normaliser driven.NoteNormaliser,
	records driven.RecordStore,
	states driven.CrawlStateStore,
) *Crawler {
	return &Crawler{
		source:     source,
		normaliser: normaliser,
		records:    records,
		states:     states,
	}
}

// Crawl fetches a venue's notes, normalises and classifies them, and
// persists the result in batches. Per-note failures are counted.
func (c *Crawler) Crawl(ctx context.Context, venue domain.Venue) (domain.CrawlCounts, error) {
	var counts domain.CrawlCounts

	if venue.ID == "" {
		return counts, fmt.Errorf("%w: empty venue id", domain.ErrInvalidInput)
	}

	logger.Section("Crawling %s", venue.ID)

	notes, errs := c.source.Crawl(ctx, venue)

	batches := make(map[domain.RecordKind][]domain.Record)
	var forums []string
	seenForums := make(map[string]struct{})

	flush := func(force bool) error {
		for kind, batch := range batches {
			if len(batch) == 0 || (!force && len(batch) < flushEvery) {
				continue
			}
			if err := c.records.SaveRecords(ctx, kind, batch); err != nil {
				return fmt.Errorf("save %s records: %w", kind, err)
			}
			batches[kind] = nil
		}
		return nil
	}

	for raw := range notes {
		rec, err := c.normaliser.Normalise(ctx, &raw)
		if err != nil {
			logger.Warn("Skipping note %s: %v", raw.ID, err)
			counts.Errors++
			continue
		}
		rec.Kind = c.normaliser.Classify(rec.Invitation, venue)

		switch rec.Kind {
		case domain.KindSubmission:
			counts.Submissions++
			if _, ok := seenForums[rec.GroupID]; !ok && rec.GroupID != "" {
				seenForums[rec.GroupID] = struct{}{}
				forums = append(forums, rec.GroupID)
			}
		case domain.KindReview:
			counts.Reviews++
		case domain.KindMetaReview:
			counts.MetaReviews++
		case domain.KindDecision:
			counts.Decisions++
		default:
			counts.Comments++
		}

		batches[rec.Kind] = append(batches[rec.Kind], *rec)
		if err := flush(false); err != nil {
			return counts, err
		}
	}

	// The source closes the notes channel before the error channel.
	for err := range errs {
		if err == nil {
			continue
		}
		// A crawl that produced nothing failed outright.
		if total(counts) == 0 {
			return counts, err
		}
		logger.Warn("Crawl error: %v", err)
		counts.Errors++
	}

	if err := flush(true); err != nil {
		return counts, err
	}

	if c.states != nil {
		state := domain.CrawlState{
			VenueID:       venue.ID,
			Offset:        counts.Submissions,
			FetchedForums: forums,
			LastCrawl:     time.Now().UTC(),
		}
		if err := c.states.Save(ctx, state); err != nil {
			return counts, fmt.Errorf("save crawl state: %w", err)
		}
	}

	logger.Info("Crawled %d submissions, %d reviews, %d meta-reviews, %d decisions, %d comments (%d errors)",
		counts.Submissions, counts.Reviews, counts.MetaReviews, counts.Decisions, counts.Comments, counts.Errors)

	return counts, nil
}

func total(c domain.CrawlCounts) int {
	return c.Submissions + c.Reviews + c.MetaReviews + c.Decisions + c.Comments
}
