package threads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

func TestRun_Idempotent(t *testing.T) {
	recs := []domain.Record{
		{ID: "a", GroupID: "P1", Fields: map[string]any{"content.review": "solid"}},
		{ID: "b", ParentID: "a", GroupID: "P1", Fields: map[string]any{"content.comment": "thanks"}},
		{ID: "c", ParentID: "z", GroupID: "P1"},
		{ID: "d", GroupID: "P2"},
		{ID: "loop1", ParentID: "loop2", GroupID: "P3"},
		{ID: "loop2", ParentID: "loop1", GroupID: "P3"},
	}

	first := Run(FromRecords(recs), DefaultRenderConfig())
	second := Run(FromRecords(recs), DefaultRenderConfig())

	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Sample.Text, second.Sample.Text)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestRun_Diagnostics(t *testing.T) {
	recs := []domain.Record{
		{ID: "", GroupID: "P1"},
		{ID: "a", GroupID: "P1"},
		{ID: "a", GroupID: "P1"},
		{ID: "loop1", ParentID: "loop2", GroupID: "P2"},
		{ID: "loop2", ParentID: "loop1", GroupID: "P2"},
	}

	res := Run(FromRecords(recs), DefaultRenderConfig())
	assert.Equal(t, domain.Diagnostics{
		Dropped:    1,
		Duplicates: 1,
		Unreached:  2,
	}, res.Diagnostics)
}

func TestRun_DirtyInputNeverFails(t *testing.T) {
	// Adversarial shapes: duplicates, self loops, long cycles, missing
	// parents and ungrouped records all produce partial results.
	recs := []domain.Record{
		{ID: "self", ParentID: "self", GroupID: "G"},
		{ID: "x", ParentID: "ghost", GroupID: "G"},
		{ID: "c1", ParentID: "c3", GroupID: "G"},
		{ID: "c2", ParentID: "c1", GroupID: "G"},
		{ID: "c3", ParentID: "c2", GroupID: "G"},
		{ID: "free"},
	}

	res := Run(FromRecords(recs), DefaultRenderConfig())
	require.Len(t, res.Stats, 1)
	assert.Equal(t, 5, res.Stats[0].RecordCount)
	assert.Equal(t, 2, res.Stats[0].RootCount)
	assert.Equal(t, 3, res.Diagnostics.Unreached)
	assert.NotEmpty(t, res.Sample.Text)
}
