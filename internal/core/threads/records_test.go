package threads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

func TestNewRecordSet_Normalises(t *testing.T) {
	rows := []map[string]any{
		{"id": "a", "forum": "P1"},
		{"id": float64(42), "replyto": "a", "forum": "P1"},
		{"id": "  c  ", "replyto": float64(42), "forum": "P1"},
	}

	rs := NewRecordSet(rows, DefaultFieldMapping())
	require.Equal(t, 3, rs.Len())

	assert.Equal(t, "a", rs.Records()[0].ID)
	assert.Equal(t, "42", rs.Records()[1].ID)
	assert.Equal(t, "c", rs.Records()[2].ID)
	assert.Equal(t, "42", rs.Records()[2].ParentID)
	assert.Zero(t, rs.Dropped())
	assert.Zero(t, rs.Duplicates())
}

func TestNewRecordSet_DropsMissingIDs(t *testing.T) {
	rows := []map[string]any{
		{"forum": "P1"},
		{"id": "", "forum": "P1"},
		{"id": nil, "forum": "P1"},
		{"id": "ok", "forum": "P1"},
	}

	rs := NewRecordSet(rows, DefaultFieldMapping())
	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, 3, rs.Dropped())
}

func TestNewRecordSet_FirstSeenWins(t *testing.T) {
	rows := []map[string]any{
		{"id": "a", "forum": "P1", "content.title": "first"},
		{"id": "a", "forum": "P2", "content.title": "second"},
	}

	rs := NewRecordSet(rows, DefaultFieldMapping())
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, 1, rs.Duplicates())
	assert.Equal(t, "P1", rs.Get("a").GroupID)
	assert.Equal(t, "first", rs.Get("a").TextField("content.title"))
}

func TestFromRecords_SameRules(t *testing.T) {
	recs := []domain.Record{
		{ID: "a", GroupID: "P1"},
		{ID: " ", GroupID: "P1"},
		{ID: "a", GroupID: "P2"},
		{ID: "b", ParentID: "a", GroupID: "P1"},
	}

	rs := FromRecords(recs)
	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, 1, rs.Dropped())
	assert.Equal(t, 1, rs.Duplicates())
	assert.Equal(t, "P1", rs.Get("a").GroupID)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", " x ", "x"},
		{"bool", true, "true"},
		{"int", 7, "7"},
		{"integral float", float64(12), "12"},
		{"fractional float", 1.5, "1.5"},
		{"slice", []any{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}
