// Package openreview implements the RecordSource driven port against
// the OpenReview Notes API.
//
// The connector streams a venue's submissions followed by every reply
// in each submission's forum. Fetching is paginated (offset/limit over
// /notes) and rate limited with a proactive token bucket plus reactive
// Retry-After handling. Authentication is optional: most venues expose
// reviews anonymously, and a bearer token obtained from /login unlocks
// the rest.
//
// Per-note problems (missing PDFs, malformed payloads) are surfaced on
// the error channel and never abort a crawl; only transport failures
// and cancellation do.
package openreview
