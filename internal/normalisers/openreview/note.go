package openreview

import (
	"context"
	"strings"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/threads"
)

// Ensure NoteNormaliser implements the interface.
var _ driven.NoteNormaliser = (*NoteNormaliser)(nil)

// Default invitation fragments used when the venue configures none.
// Matching is by substring against the invitation id.
var (
	defaultReviewFragments   = []string{"Official_Review", "/Review"}
	defaultMetaFragments     = []string{"Meta_Review", "Meta-Review"}
	defaultDecisionFragments = []string{"Decision", "Acceptance"}
)

// NoteNormaliser flattens OpenReview notes into Records.
type NoteNormaliser struct{}

// New creates a new OpenReview note normaliser.
func New() *NoteNormaliser {
	return &NoteNormaliser{}
}

// Normalise converts a raw note into a flat Record. Content fields
// become "content.<key>" entries; API v2 {"value": ...} wrappers are
// unwrapped first. Scalars are stringified, anything else is kept as
// its JSON form.
func (n *NoteNormaliser) Normalise(_ context.Context, raw *domain.RawNote) (*domain.Record, error) {
	if raw == nil || raw.ID == "" {
		return nil, domain.ErrInvalidInput
	}

	rec := &domain.Record{
		ID:         raw.ID,
		GroupID:    raw.Forum,
		Invitation: raw.Invitation,
		Fields:     make(map[string]any),
	}

	payload := raw.Payload
	if payload == nil {
		return rec, nil
	}

	if replyTo, ok := payload["replyto"].(string); ok && replyTo != raw.ID {
		rec.ParentID = replyTo
	}
	rec.Signatures = joinStrings(payload["signatures"])
	rec.CDate = asInt64(payload["cdate"])

	for key, value := range payload {
		switch key {
		case "content":
			content, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for ck, cv := range content {
				rec.Fields["content."+ck] = threads.Stringify(unwrap(cv))
			}
		case "id", "replyto", "forum", "invitation", "signatures", "cdate":
			// Lifted into dedicated fields above.
		case "readers", "writers", "nonreaders":
			rec.Fields[key] = joinStrings(value)
		default:
			rec.Fields[key] = threads.Stringify(value)
		}
	}

	return rec, nil
}

// Classify maps an invitation id to a record kind using the venue's
// name fragments. Submissions are matched against the venue's full
// submission invitations, everything else by substring.
func (n *NoteNormaliser) Classify(invitation string, venue domain.Venue) domain.RecordKind {
	for _, suffix := range venue.InvitationSuffixes {
		if invitation == venue.ID+"/-/"+suffix {
			return domain.KindSubmission
		}
	}

	// Meta-reviews before reviews: "Meta_Review" contains "Review".
	if containsAny(invitation, fragments(venue.MetaFragments, defaultMetaFragments)) {
		return domain.KindMetaReview
	}
	if containsAny(invitation, fragments(venue.ReviewFragments, defaultReviewFragments)) {
		return domain.KindReview
	}
	if containsAny(invitation, fragments(venue.DecisionFragments, defaultDecisionFragments)) {
		return domain.KindDecision
	}
	return domain.KindComment
}

func fragments(configured, fallback []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return fallback
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// unwrap removes the API v2 {"value": ...} wrapper around content
// fields, leaving v1 payloads untouched.
func unwrap(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	inner, ok := m["value"]
	if !ok {
		return v
	}
	return inner
}

// joinStrings renders a JSON string array as a comma-joined string.
func joinStrings(v any) string {
	switch vs := v.(type) {
	case []any:
		parts := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(vs, ",")
	case string:
		return vs
	default:
		return ""
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
