// Package messages defines the Bubbletea messages exchanged between the
// app model and its views.
package messages

import (
	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewGroups is the per-paper group list.
	ViewGroups ViewType = iota

	// ViewThread is the thread outline for one group.
	ViewThread

	// ViewHelp is the keybinding help screen.
	ViewHelp
)

// String returns a human-readable view name.
func (v ViewType) String() string {
	switch v {
	case ViewGroups:
		return "groups"
	case ViewThread:
		return "thread"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// AnalysisLoaded carries the result of an analysis run.
type AnalysisLoaded struct {
	Report *domain.AnalysisReport
	Err    error
}

// GroupSelected requests navigation to one group's thread outline.
type GroupSelected struct {
	Stats domain.GroupStats
}

// ViewChanged requests a switch to another view.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred reports an error to the active view.
type ErrorOccurred struct {
	Err error
}

// Quit requests application shutdown.
type Quit struct{}
