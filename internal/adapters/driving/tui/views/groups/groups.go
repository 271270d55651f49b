// Package groups provides the per-paper group list view for the TUI.
package groups

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/keymap"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/messages"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/styles"
	"github.com/orca-labs/orca-cli/internal/core/domain"
)

// View is the group list. Rows arrive pre-sorted by the analysis
// (record count descending) and are rendered with a scroll window.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	inputDir     string
	stats        []domain.GroupStats
	recordCount  int
	selected     int
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a new group list view.
func NewView(s *styles.Styles, inputDir string) *View {
	return &View{
		styles:   s,
		keys:     keymap.DefaultKeyMap(),
		inputDir: inputDir,
		loading:  true,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the group list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnalysisLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.stats = msg.Report.Stats
		v.recordCount = msg.Report.RecordCount
		if v.selected >= len(v.stats) {
			v.selected = 0
			v.scrollOffset = 0
		}
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keys.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keys.Down):
		if v.selected < len(v.stats)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keys.Top):
		v.selected = 0
		v.adjustScroll()
	case keymap.Matches(keyStr, v.keys.Bottom):
		if len(v.stats) > 0 {
			v.selected = len(v.stats) - 1
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keys.Select):
		if v.selected < len(v.stats) {
			stats := v.stats[v.selected]
			return v, func() tea.Msg {
				return messages.GroupSelected{Stats: stats}
			}
		}
	}
	return v, nil
}

// adjustScroll keeps the selected row inside the visible window.
func (v *View) adjustScroll() {
	visible := v.visibleRowCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleRowCount() int {
	// Title, column header, scroll indicator, help, padding.
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// SetLoading marks the view as waiting for an analysis run.
func (v *View) SetLoading() {
	v.loading = true
	v.err = nil
}

// View renders the group list.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Discussions - %s", v.inputDir)
	if len(v.stats) > 0 {
		title = fmt.Sprintf("Discussions - %s (%d papers, %d records)",
			v.inputDir, len(v.stats), v.recordCount)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Analysing records..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.stats) == 0 {
		b.WriteString(v.styles.Muted.Render("No threadable records in this directory."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("  %-*s %8s %6s %6s %7s",
		v.idColumnWidth(), "paper", "records", "roots", "depth", "mean")))
	b.WriteString("\n")

	visible := v.visibleRowCount()
	for i := v.scrollOffset; i < len(v.stats) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderRow(i, &v.stats[i]))
		b.WriteString("\n")
	}

	if len(v.stats) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.stats)),
			len(v.stats))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderRow(index int, stats *domain.GroupStats) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	id := stats.GroupID
	width := v.idColumnWidth()
	if len(id) > width {
		id = id[:width-3] + "..."
	}

	line := fmt.Sprintf("%s%-*s %8d %6d %6d %7.3f",
		indicator, width, id,
		stats.RecordCount, stats.RootCount, stats.MaxDepth, stats.MeanDepth)

	if index == v.selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Normal.Render(line)
}

func (v *View) idColumnWidth() int {
	width := v.width - 34
	if width < 12 {
		width = 12
	}
	return width
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] open thread  [r] reload  [?] help  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Stats returns the listed group statistics.
func (v *View) Stats() []domain.GroupStats {
	return v.stats
}

// SelectedIndex returns the highlighted row index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
