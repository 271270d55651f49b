package driven

import (
	"context"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// RecordSource streams raw notes from a discussion platform. The engine
// never talks to a RecordSource directly; the crawl service drains it
// into a RecordStore first, so analysis output is independent of
// delivery order.
type RecordSource interface {
	// Type returns the source type identifier (e.g. "openreview").
	Type() string

	// Validate checks configuration and connectivity.
	Validate(ctx context.Context) error

	// Crawl streams every submission for the venue followed by all
	// replies in its forum. Both channels are closed when the crawl
	// finishes or the context is cancelled. Errors on the error channel
	// are per-note and non-fatal unless the notes channel closes early.
	Crawl(ctx context.Context, venue domain.Venue) (<-chan domain.RawNote, <-chan error)

	// Close releases connector resources. Crawl must not be called
	// after Close.
	Close() error
}

// NoteNormaliser converts a raw platform note into a flat Record.
type NoteNormaliser interface {
	// Normalise flattens the note payload into a Record. Scalar content
	// fields become "content.<key>" entries.
	Normalise(ctx context.Context, raw *domain.RawNote) (*domain.Record, error)

	// Classify derives the record kind from the note's invitation,
	// using the venue's configured name fragments.
	Classify(invitation string, venue domain.Venue) domain.RecordKind
}
