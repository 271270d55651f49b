package tui

import "errors"

var (
	// ErrMissingAnalyzer indicates the analyzer port was not provided.
	ErrMissingAnalyzer = errors.New("analyzer port is required")

	// ErrMissingPort indicates a required port or setting was not provided.
	ErrMissingPort = errors.New("missing required port")
)
