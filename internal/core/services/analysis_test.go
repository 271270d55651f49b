package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// fakeRecordStore is a minimal in-memory record store for service tests.
type fakeRecordStore struct {
	mu      sync.Mutex
	records map[domain.RecordKind][]domain.Record
	saveErr error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[domain.RecordKind][]domain.Record)}
}

func (s *fakeRecordStore) SaveRecords(_ context.Context, kind domain.RecordKind, records []domain.Record) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[kind] = append(s.records[kind], records...)
	return nil
}

func (s *fakeRecordStore) LoadRecords(_ context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Record(nil), s.records[kind]...), nil
}

func (s *fakeRecordStore) LoadAll(_ context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Record
	for _, kind := range []domain.RecordKind{
		domain.KindSubmission, domain.KindReview, domain.KindMetaReview,
		domain.KindDecision, domain.KindComment,
	} {
		all = append(all, s.records[kind]...)
	}
	return all, nil
}

type fakeReportStore struct {
	mu    sync.Mutex
	saved []*domain.AnalysisReport
}

func (s *fakeReportStore) SaveReport(_ context.Context, report *domain.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, report)
	return nil
}

func (s *fakeReportStore) GetReport(context.Context, string) (*domain.AnalysisReport, error) {
	return nil, domain.ErrNotFound
}

func (s *fakeReportStore) ListReports(context.Context) ([]domain.AnalysisReport, error) {
	return nil, nil
}

type fakeSink struct {
	mu     sync.Mutex
	writes int
	last   *driven.ReportData
	err    error
}

func (s *fakeSink) Write(_ context.Context, _ string, data *driven.ReportData) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.last = data
	return nil
}

func seedRecords(t *testing.T, store driven.RecordStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveRecords(ctx, domain.KindSubmission, []domain.Record{
		{ID: "p1", GroupID: "p1", Kind: domain.KindSubmission,
			Fields: map[string]any{"content.title": "Paper One"}},
	}))
	require.NoError(t, store.SaveRecords(ctx, domain.KindReview, []domain.Record{
		{ID: "r1", GroupID: "p1", Kind: domain.KindReview,
			Fields: map[string]any{"content.review": "Sound method."}},
		{ID: "r2", ParentID: "r1", GroupID: "p1", Kind: domain.KindReview},
	}))
	require.NoError(t, store.SaveRecords(ctx, domain.KindDecision, []domain.Record{
		{ID: "d1", GroupID: "p1", Kind: domain.KindDecision,
			Fields: map[string]any{"content.decision": "Accept"}},
	}))
}

func TestAnalyzer_Analyze(t *testing.T) {
	store := newFakeRecordStore()
	seedRecords(t, store)
	reports := &fakeReportStore{}
	sink := &fakeSink{}

	analyzer := NewAnalyzer(store, reports, sink, nil)
	report, err := analyzer.Analyze(context.Background(), driving.AnalyzeRequest{OutDir: t.TempDir()})
	require.NoError(t, err)

	// Submissions and decisions feed the reports, not the thread engine.
	assert.Equal(t, 2, report.RecordCount)
	require.Len(t, report.Stats, 1)
	assert.Equal(t, "p1", report.Stats[0].GroupID)
	assert.Equal(t, 2, report.Stats[0].RecordCount)
	assert.Equal(t, 1, report.Stats[0].RootCount)
	assert.Equal(t, 1, report.Stats[0].MaxDepth)

	require.Len(t, reports.saved, 1)
	assert.Equal(t, report.RunID, reports.saved[0].RunID)

	assert.Equal(t, 1, sink.writes)
	require.NotNil(t, sink.last)
	assert.Len(t, sink.last.Submissions, 1)
	assert.Len(t, sink.last.Reviews, 2)
	assert.Len(t, sink.last.Decisions, 1)
}

func TestAnalyzer_DefaultRequestRendersSample(t *testing.T) {
	// A request with zero MaxLines/SnippetLen gets the documented
	// defaults: a small snapshot renders completely, untruncated.
	store := newFakeRecordStore()
	seedRecords(t, store)

	analyzer := NewAnalyzer(store, nil, nil, nil)
	report, err := analyzer.Analyze(context.Background(), driving.AnalyzeRequest{})
	require.NoError(t, err)

	assert.False(t, report.Sample.Truncated)
	assert.NotEmpty(t, report.Sample.Text)
	assert.Greater(t, report.Sample.Lines, 0)
	assert.Contains(t, report.Sample.Text, "- `r1` depth=0  Sound method.")
	assert.Contains(t, report.Sample.Text, "  - `r2` depth=1")
}

func TestAnalyzer_EmptyStoreSucceeds(t *testing.T) {
	analyzer := NewAnalyzer(newFakeRecordStore(), nil, nil, nil)

	report, err := analyzer.Analyze(context.Background(), driving.AnalyzeRequest{})
	require.NoError(t, err)
	assert.Zero(t, report.RecordCount)
	assert.Empty(t, report.Stats)
}

func TestAnalyzer_NoFileOutputWithoutOutDir(t *testing.T) {
	store := newFakeRecordStore()
	seedRecords(t, store)
	sink := &fakeSink{}

	analyzer := NewAnalyzer(store, nil, sink, nil)
	_, err := analyzer.Analyze(context.Background(), driving.AnalyzeRequest{})
	require.NoError(t, err)
	assert.Zero(t, sink.writes)
}

func TestAnalyzer_SinkFailure(t *testing.T) {
	store := newFakeRecordStore()
	seedRecords(t, store)
	sink := &fakeSink{err: errors.New("disk full")}

	analyzer := NewAnalyzer(store, nil, sink, nil)
	_, err := analyzer.Analyze(context.Background(), driving.AnalyzeRequest{OutDir: "out"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAnalyzer_InputDirStore(t *testing.T) {
	store := newFakeRecordStore()
	seedRecords(t, store)

	var openedDir string
	open := func(dir string) (driven.RecordStore, error) {
		openedDir = dir
		return store, nil
	}

	analyzer := NewAnalyzer(nil, nil, nil, open)
	report, err := analyzer.Analyze(context.Background(), driving.AnalyzeRequest{InputDir: "data/x"})
	require.NoError(t, err)
	assert.Equal(t, "data/x", openedDir)
	assert.Equal(t, 2, report.RecordCount)

	// No opener configured means input dirs are rejected.
	analyzer = NewAnalyzer(store, nil, nil, nil)
	_, err = analyzer.Analyze(context.Background(), driving.AnalyzeRequest{InputDir: "data/x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalyzer_Status(t *testing.T) {
	store := newFakeRecordStore()
	seedRecords(t, store)
	analyzer := NewAnalyzer(store, nil, nil, nil)
	ctx := context.Background()

	_, err := analyzer.Status(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	report, err := analyzer.Analyze(ctx, driving.AnalyzeRequest{})
	require.NoError(t, err)

	status, err := analyzer.Status(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, report.RunID, status.RunID)
	assert.False(t, status.Running)
	assert.Equal(t, 2, status.RecordCount)
	assert.Equal(t, 1, status.GroupCount)
}
