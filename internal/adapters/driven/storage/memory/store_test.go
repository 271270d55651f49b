package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

func TestRecordStore(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, domain.KindComment,
		[]domain.Record{{ID: "c1"}}))
	require.NoError(t, store.SaveRecords(ctx, domain.KindSubmission,
		[]domain.Record{{ID: "s1"}, {ID: "s2"}}))

	subs, err := store.LoadRecords(ctx, domain.KindSubmission)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Submissions come before comments regardless of save order.
	assert.Equal(t, "s1", all[0].ID)
	assert.Equal(t, "c1", all[2].ID)
}

func TestCrawlStateStore(t *testing.T) {
	store := NewCrawlStateStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "V/2024")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, domain.CrawlState{VenueID: "V/2024", Offset: 100}))

	got, err := store.Get(ctx, "V/2024")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Offset)
	assert.False(t, got.LastCrawl.IsZero())
}

func TestReportStore(t *testing.T) {
	store := NewReportStore()
	ctx := context.Background()

	report := &domain.AnalysisReport{RunID: "run-1", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveReport(ctx, report))
	assert.ErrorIs(t, store.SaveReport(ctx, report), domain.ErrAlreadyExists)

	got, err := store.GetReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)

	older := &domain.AnalysisReport{RunID: "run-0", CreatedAt: report.CreatedAt.Add(-time.Minute)}
	require.NoError(t, store.SaveReport(ctx, older))

	list, err := store.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run-1", list[0].RunID)
}
