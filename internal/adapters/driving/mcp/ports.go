package mcp

import (
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// Ports aggregates the driving and driven ports required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Analyzer runs thread analysis over record snapshots.
	Analyzer driving.Analyzer

	// Reports exposes stored runs. Optional; the run resources return
	// empty results without it.
	Reports driven.ReportStore

	// InputDir is the default record directory for tool calls that do
	// not name one.
	InputDir string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	return nil
}
