package domain

// RecordKind classifies a record by the invitation that produced it.
type RecordKind string

const (
	// KindSubmission is a top-level paper submission.
	KindSubmission RecordKind = "submission"

	// KindReview is an official review.
	KindReview RecordKind = "review"

	// KindMetaReview is a meta-review / AC summary.
	KindMetaReview RecordKind = "meta_review"

	// KindDecision is an accept/reject decision note.
	KindDecision RecordKind = "decision"

	// KindComment is any other reply (author response, public comment).
	KindComment RecordKind = "comment"
)

// Record is one flat review/comment record exported from the discussion
// platform. The thread engine consumes a slice of these; everything in
// Fields is opaque to it except for snippet extraction.
type Record struct {
	// ID is the unique identifier within a record set.
	ID string

	// ParentID is the reply-to pointer. Empty means "no parent declared".
	// A ParentID that resolves to no known record makes this a root.
	ParentID string

	// GroupID is the discussion (forum) this record belongs to.
	// Empty means the record is excluded from per-group aggregation.
	GroupID string

	// Kind classifies the record. Informational only; the engine
	// does not branch on it.
	Kind RecordKind

	// Invitation is the raw invitation id the note was posted under.
	Invitation string

	// Signatures are the joined signature ids of the note.
	Signatures string

	// CDate is the creation timestamp in epoch milliseconds, 0 if unknown.
	CDate int64

	// Fields holds the flattened payload. Content fields are keyed
	// "content.<name>" with scalar values stringified.
	Fields map[string]any
}

// TextField returns the string value of a field, or "" if the field is
// absent or not a string.
func (r *Record) TextField(name string) string {
	if r.Fields == nil {
		return ""
	}
	s, _ := r.Fields[name].(string)
	return s
}
