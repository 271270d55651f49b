package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Data-shape problems in
// crawled records are never errors; they are reported via Diagnostics.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown record source or report format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrAnalysisInProgress indicates an analysis run is already running
	// for the same input directory.
	ErrAnalysisInProgress = errors.New("analysis in progress")

	// ErrNoRecords indicates the input contained no usable records.
	ErrNoRecords = errors.New("no records to analyse")

	// Connector Errors.

	// ErrAuthRequired indicates the API requires authentication but none
	// is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrVenueNotFound indicates no submission invitation matched under
	// the requested venue group.
	ErrVenueNotFound = errors.New("venue not found")

	// Parser Errors.

	// ErrParserUnavailable indicates the document parsing server is not
	// reachable. PDF-to-text conversion is disabled without it.
	ErrParserUnavailable = errors.New("document parser unavailable")
)
