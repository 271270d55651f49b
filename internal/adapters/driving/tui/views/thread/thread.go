// Package thread provides the thread outline view for one discussion.
package thread

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/keymap"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/messages"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/styles"
	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// View shows one group's rendered reply tree with line scrolling.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	stats        domain.GroupStats
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new thread view.
func NewView(s *styles.Styles) *View {
	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
	}
}

// SetThread loads one group's outline into the view.
func (v *View) SetThread(stats domain.GroupStats, lines []string) {
	v.stats = stats
	v.lines = lines
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the thread view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keys.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(keyStr, v.keys.Down):
		if v.scrollOffset < v.maxScroll() {
			v.scrollOffset++
		}
	case keymap.Matches(keyStr, v.keys.Top):
		v.scrollOffset = 0
	case keymap.Matches(keyStr, v.keys.Bottom):
		v.scrollOffset = v.maxScroll()
	case keymap.Matches(keyStr, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewGroups}
		}
	}
	return v, nil
}

func (v *View) maxScroll() int {
	m := len(v.lines) - v.visibleLineCount()
	if m < 0 {
		m = 0
	}
	return m
}

func (v *View) visibleLineCount() int {
	// Title, stats line, scroll indicator, help, padding.
	reserved := 7
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the thread outline.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Thread - " + v.stats.GroupID))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"%d records, %d roots, max depth %d, mean depth %.3f",
		v.stats.RecordCount, v.stats.RootCount, v.stats.MaxDepth, v.stats.MeanDepth)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("No outline available for this discussion."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLineCount()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [g/G] top/bottom  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Lines returns the outline lines.
func (v *View) Lines() []string {
	return v.lines
}

// ScrollOffset returns the current scroll position.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
