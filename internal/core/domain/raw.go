package domain

// RawNote represents one note as fetched from the discussion platform,
// before normalisation. It is the connector's output.
type RawNote struct {
	// ID is the platform note id.
	ID string

	// Forum is the discussion the note belongs to.
	Forum string

	// Invitation is the invitation id the note was posted under.
	Invitation string

	// Payload is the decoded note body, field name to value.
	Payload map[string]any
}
