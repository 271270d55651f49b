package domain

import "time"

// Venue is a configured OpenReview venue (group) to crawl,
// e.g. "ICLR.cc/2024/Conference".
type Venue struct {
	// ID is the OpenReview group id.
	ID string

	// InvitationSuffixes are tried in order to locate submissions,
	// e.g. ["Blind_Submission", "Submission"].
	InvitationSuffixes []string

	// ReviewFragments identify review invitations by substring.
	ReviewFragments []string

	// MetaFragments identify meta-review invitations by substring.
	MetaFragments []string

	// DecisionFragments identify decision invitations by substring.
	DecisionFragments []string

	// Limit caps the number of submissions fetched. 0 means no cap.
	Limit int
}

// CrawlState records where an interrupted crawl can resume.
type CrawlState struct {
	// VenueID is the venue this state belongs to.
	VenueID string

	// Offset is the pagination offset of the next submissions page.
	Offset int

	// FetchedForums are forum ids whose replies are already stored.
	FetchedForums []string

	// LastCrawl is when the state was last saved.
	LastCrawl time.Time
}

// CrawlCounts summarises one crawl run.
type CrawlCounts struct {
	Submissions int
	Reviews     int
	MetaReviews int
	Decisions   int
	Comments    int
	Errors      int
}
