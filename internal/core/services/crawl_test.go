package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// fakeSource replays a fixed note stream.
type fakeSource struct {
	notes []domain.RawNote
	errs  []error
}

func (s *fakeSource) Type() string                   { return "fake" }
func (s *fakeSource) Validate(context.Context) error { return nil }
func (s *fakeSource) Close() error                   { return nil }

func (s *fakeSource) Crawl(ctx context.Context, _ domain.Venue) (<-chan domain.RawNote, <-chan error) {
	notesChan := make(chan domain.RawNote)
	errsChan := make(chan error, len(s.errs)+1)
	go func() {
		defer close(errsChan)
		defer close(notesChan)
		for _, n := range s.notes {
			select {
			case <-ctx.Done():
				return
			case notesChan <- n:
			}
		}
		for _, err := range s.errs {
			errsChan <- err
		}
	}()
	return notesChan, errsChan
}

// fakeNormaliser lifts identity fields and classifies by invitation
// substring.
type fakeNormaliser struct{}

func (fakeNormaliser) Normalise(_ context.Context, raw *domain.RawNote) (*domain.Record, error) {
	if raw.ID == "bad" {
		return nil, domain.ErrInvalidInput
	}
	rec := &domain.Record{ID: raw.ID, GroupID: raw.Forum, Invitation: raw.Invitation}
	if parent, ok := raw.Payload["replyto"].(string); ok {
		rec.ParentID = parent
	}
	return rec, nil
}

func (fakeNormaliser) Classify(invitation string, _ domain.Venue) domain.RecordKind {
	switch {
	case strings.Contains(invitation, "Submission"):
		return domain.KindSubmission
	case strings.Contains(invitation, "Review"):
		return domain.KindReview
	case strings.Contains(invitation, "Decision"):
		return domain.KindDecision
	default:
		return domain.KindComment
	}
}

type fakeStateStore struct {
	mu    sync.Mutex
	saved []domain.CrawlState
}

func (s *fakeStateStore) Get(context.Context, string) (*domain.CrawlState, error) {
	return nil, domain.ErrNotFound
}

func (s *fakeStateStore) Save(_ context.Context, state domain.CrawlState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, state)
	return nil
}

func TestCrawler_Crawl(t *testing.T) {
	source := &fakeSource{notes: []domain.RawNote{
		{ID: "p1", Forum: "p1", Invitation: "V/-/Blind_Submission"},
		{ID: "p2", Forum: "p2", Invitation: "V/-/Blind_Submission"},
		{ID: "r1", Forum: "p1", Invitation: "V/P1/-/Official_Review",
			Payload: map[string]any{"replyto": "p1"}},
		{ID: "d1", Forum: "p1", Invitation: "V/P1/-/Decision"},
		{ID: "c1", Forum: "p1", Invitation: "V/P1/-/Official_Comment"},
	}}
	store := newFakeRecordStore()
	states := &fakeStateStore{}

	crawler := NewCrawler(source, fakeNormaliser{}, store, states)
	counts, err := crawler.Crawl(context.Background(), domain.Venue{ID: "V"})
	require.NoError(t, err)

	assert.Equal(t, 2, counts.Submissions)
	assert.Equal(t, 1, counts.Reviews)
	assert.Equal(t, 1, counts.Decisions)
	assert.Equal(t, 1, counts.Comments)
	assert.Zero(t, counts.Errors)

	subs, err := store.LoadRecords(context.Background(), domain.KindSubmission)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	reviews, err := store.LoadRecords(context.Background(), domain.KindReview)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "p1", reviews[0].ParentID)
	assert.Equal(t, domain.KindReview, reviews[0].Kind)

	require.Len(t, states.saved, 1)
	assert.Equal(t, "V", states.saved[0].VenueID)
	assert.Equal(t, []string{"p1", "p2"}, states.saved[0].FetchedForums)
}

func TestCrawler_BadNotesCounted(t *testing.T) {
	source := &fakeSource{notes: []domain.RawNote{
		{ID: "p1", Forum: "p1", Invitation: "V/-/Submission"},
		{ID: "bad", Forum: "p1"},
	}}
	store := newFakeRecordStore()

	crawler := NewCrawler(source, fakeNormaliser{}, store, nil)
	counts, err := crawler.Crawl(context.Background(), domain.Venue{ID: "V"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Submissions)
	assert.Equal(t, 1, counts.Errors)
}

func TestCrawler_FailsWhenNothingCrawled(t *testing.T) {
	source := &fakeSource{errs: []error{domain.ErrVenueNotFound}}
	crawler := NewCrawler(source, fakeNormaliser{}, newFakeRecordStore(), nil)

	_, err := crawler.Crawl(context.Background(), domain.Venue{ID: "V"})
	assert.ErrorIs(t, err, domain.ErrVenueNotFound)
}

func TestCrawler_PartialErrorsNotFatal(t *testing.T) {
	source := &fakeSource{
		notes: []domain.RawNote{{ID: "p1", Forum: "p1", Invitation: "V/-/Submission"}},
		errs:  []error{errors.New("forum p2: boom")},
	}
	crawler := NewCrawler(source, fakeNormaliser{}, newFakeRecordStore(), nil)

	counts, err := crawler.Crawl(context.Background(), domain.Venue{ID: "V"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Submissions)
	assert.Equal(t, 1, counts.Errors)
}

func TestCrawler_EmptyVenueRejected(t *testing.T) {
	crawler := NewCrawler(&fakeSource{}, fakeNormaliser{}, newFakeRecordStore(), nil)
	_, err := crawler.Crawl(context.Background(), domain.Venue{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
