package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	reviews := []domain.Record{
		{ID: "r1", ParentID: "s1", GroupID: "s1", Kind: domain.KindReview,
			Fields: map[string]any{"content.review": "Fine work."}},
		{ID: "r2", ParentID: "r1", GroupID: "s1", Kind: domain.KindReview},
	}
	require.NoError(t, store.SaveRecords(ctx, domain.KindReview, reviews))

	loaded, err := store.LoadRecords(ctx, domain.KindReview)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "r1", loaded[0].ID)
	assert.Equal(t, "s1", loaded[0].ParentID)
	assert.Equal(t, "s1", loaded[0].GroupID)
	assert.Equal(t, "Fine work.", loaded[0].Fields["content.review"])
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.LoadRecords(context.Background(), domain.KindDecision)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"id":"r1","forum":"s1"}
not json at all
{"id":"r2","forum":"s1"}

{"id":
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reviews.jsonl"), []byte(content), 0644))

	store, err := NewStore(dir)
	require.NoError(t, err)

	loaded, err := store.LoadRecords(context.Background(), domain.KindReview)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "r1", loaded[0].ID)
	assert.Equal(t, "r2", loaded[1].ID)
	// Kind defaults from the file when the line carries none.
	assert.Equal(t, domain.KindReview, loaded[0].Kind)
}

func TestStore_LoadAllOrder(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, domain.KindComment,
		[]domain.Record{{ID: "c1", Kind: domain.KindComment}}))
	require.NoError(t, store.SaveRecords(ctx, domain.KindSubmission,
		[]domain.Record{{ID: "s1", Kind: domain.KindSubmission}}))

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[0].ID)
	assert.Equal(t, "c1", all[1].ID)
}

func TestStore_AppendsAcrossSaves(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, domain.KindReview, []domain.Record{{ID: "r1"}}))
	require.NoError(t, store.SaveRecords(ctx, domain.KindReview, []domain.Record{{ID: "r2"}}))

	loaded, err := store.LoadRecords(ctx, domain.KindReview)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestStore_UnknownKind(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.SaveRecords(context.Background(), domain.RecordKind("bogus"), []domain.Record{{ID: "x"}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
