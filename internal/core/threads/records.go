package threads

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// FieldMapping names the raw fields that carry the record key, the
// reply-to pointer and the discussion tag. Field naming is a concern of
// the calling layer; the engine only needs to know where to look.
type FieldMapping struct {
	IDField     string
	ParentField string
	GroupField  string
}

// DefaultFieldMapping matches the OpenReview export shape.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		IDField:     "id",
		ParentField: "replyto",
		GroupField:  "forum",
	}
}

// RecordSet is an ordered, normalised snapshot of records. It is
// build-once: after construction it is only read.
type RecordSet struct {
	records    []*domain.Record
	index      map[string]*domain.Record
	dropped    int
	duplicates int
}

// NewRecordSet normalises an ordered sequence of raw rows. Rows without
// a usable id are dropped and counted. When two rows claim the same id
// the first one wins and the later one is counted as a duplicate; this
// is stable under input ordering.
func NewRecordSet(rows []map[string]any, m FieldMapping) *RecordSet {
	rs := &RecordSet{index: make(map[string]*domain.Record, len(rows))}
	for _, row := range rows {
		id := Stringify(row[m.IDField])
		if id == "" {
			rs.dropped++
			continue
		}
		if _, seen := rs.index[id]; seen {
			rs.duplicates++
			continue
		}
		rec := &domain.Record{
			ID:       id,
			ParentID: Stringify(row[m.ParentField]),
			GroupID:  Stringify(row[m.GroupField]),
			Fields:   row,
		}
		rs.index[id] = rec
		rs.records = append(rs.records, rec)
	}
	return rs
}

// FromRecords builds a RecordSet from already-normalised records,
// applying the same drop and first-seen-wins rules.
func FromRecords(recs []domain.Record) *RecordSet {
	rs := &RecordSet{index: make(map[string]*domain.Record, len(recs))}
	for i := range recs {
		rec := recs[i]
		rec.ID = strings.TrimSpace(rec.ID)
		if rec.ID == "" {
			rs.dropped++
			continue
		}
		if _, seen := rs.index[rec.ID]; seen {
			rs.duplicates++
			continue
		}
		stored := rec
		rs.index[rec.ID] = &stored
		rs.records = append(rs.records, &stored)
	}
	return rs
}

// Len returns the number of indexed records.
func (rs *RecordSet) Len() int {
	return len(rs.records)
}

// Records returns the indexed records in input order.
// Callers must not mutate the returned slice.
func (rs *RecordSet) Records() []*domain.Record {
	return rs.records
}

// Get returns the record for an id, or nil if unknown.
func (rs *RecordSet) Get(id string) *domain.Record {
	return rs.index[id]
}

// Dropped returns the count of rows excluded for lacking a usable id.
func (rs *RecordSet) Dropped() int {
	return rs.dropped
}

// Duplicates returns the count of rows ignored as duplicate ids.
func (rs *RecordSet) Duplicates() int {
	return rs.duplicates
}

// Stringify normalises a raw field value to string form. Absent and
// null values become "". Non-scalar values are JSON-encoded so that the
// result is deterministic.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		// JSON numbers decode as float64; keep integral ids readable.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
