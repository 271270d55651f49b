// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants run thread analysis and read the resulting
// statistics and samples.
package mcp

import "errors"

// ErrMissingAnalyzer is returned when the analysis service is not provided.
var ErrMissingAnalyzer = errors.New("mcp: analyzer is required")
