// Package tui provides the interactive terminal browser for discussion
// threads, built on Bubbletea following the Elm architecture.
package tui

import (
	"fmt"

	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// Ports bundles the driving ports the TUI needs.
type Ports struct {
	// Analyzer runs the thread analysis that backs every view.
	Analyzer driving.Analyzer

	// InputDir is the record directory the browser reads.
	InputDir string
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	if p.InputDir == "" {
		return fmt.Errorf("%w: input directory", ErrMissingPort)
	}
	return nil
}
