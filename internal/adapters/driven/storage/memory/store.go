// Package memory provides in-memory implementations of the storage
// driven ports, used in tests and as a fallback when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
)

var kindOrder = []domain.RecordKind{
	domain.KindSubmission,
	domain.KindReview,
	domain.KindMetaReview,
	domain.KindDecision,
	domain.KindComment,
}

// RecordStore is an in-memory driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[domain.RecordKind][]domain.Record
}

var _ driven.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[domain.RecordKind][]domain.Record)}
}

// SaveRecords appends records of one kind.
func (s *RecordStore) SaveRecords(_ context.Context, kind domain.RecordKind, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[kind] = append(s.records[kind], records...)
	return nil
}

// LoadRecords returns all records of one kind in stored order.
func (s *RecordStore) LoadRecords(_ context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records[kind]))
	copy(out, s.records[kind])
	return out, nil
}

// LoadAll returns every stored record, kinds in fixed order.
func (s *RecordStore) LoadAll(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.Record
	for _, kind := range kindOrder {
		all = append(all, s.records[kind]...)
	}
	return all, nil
}

// CrawlStateStore is an in-memory driven.CrawlStateStore.
type CrawlStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.CrawlState
}

var _ driven.CrawlStateStore = (*CrawlStateStore)(nil)

// NewCrawlStateStore creates an empty in-memory crawl state store.
func NewCrawlStateStore() *CrawlStateStore {
	return &CrawlStateStore{states: make(map[string]domain.CrawlState)}
}

// Get retrieves the crawl state for a venue.
func (s *CrawlStateStore) Get(_ context.Context, venueID string) (*domain.CrawlState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[venueID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Save stores the crawl state for a venue.
func (s *CrawlStateStore) Save(_ context.Context, state domain.CrawlState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.LastCrawl.IsZero() {
		state.LastCrawl = time.Now().UTC()
	}
	s.states[state.VenueID] = state
	return nil
}

// ReportStore is an in-memory driven.ReportStore.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]domain.AnalysisReport
}

var _ driven.ReportStore = (*ReportStore)(nil)

// NewReportStore creates an empty in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]domain.AnalysisReport)}
}

// SaveReport stores a completed run.
func (s *ReportStore) SaveReport(_ context.Context, report *domain.AnalysisReport) error {
	if report == nil || report.RunID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.RunID]; ok {
		return domain.ErrAlreadyExists
	}
	s.reports[report.RunID] = *report
	return nil
}

// GetReport retrieves a run by id.
func (s *ReportStore) GetReport(_ context.Context, runID string) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &report, nil
}

// ListReports returns stored runs, newest first.
func (s *ReportStore) ListReports(_ context.Context) ([]domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]domain.AnalysisReport, 0, len(s.reports))
	for _, report := range s.reports {
		list = append(list, report)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].RunID < list[j].RunID
	})
	return list, nil
}
