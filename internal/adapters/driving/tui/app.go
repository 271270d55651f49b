package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/keymap"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/messages"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/styles"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/views/groups"
	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui/views/thread"
	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// browseMaxLines is the outline budget for interactive browsing. Large
// enough that every group gets a tree, still bounded against runaway
// input.
const browseMaxLines = 5000

// groupHeaderPrefix marks the start of one group's section in the
// rendered sample.
const groupHeaderPrefix = "### Paper "

// App is the thread browser model. It implements tea.Model.
type App struct {
	ports *Ports
	ctx   context.Context

	styles      *styles.Styles
	keys        *keymap.KeyMap
	groupsView  *groups.View
	threadView  *thread.View
	currentView messages.ViewType

	// outlines maps group id to its rendered thread lines, sliced from
	// the last analysis run.
	outlines map[string][]string

	report *domain.AnalysisReport
	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the browser with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keymap.DefaultKeyMap(),
		groupsView:  groups.NewView(s, ports.InputDir),
		threadView:  thread.NewView(s),
		currentView: messages.ViewGroups,
	}, nil
}

// WithContext sets the context used for analysis runs.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("orca - Thread Browser"),
		a.loadAnalysis(),
	)
}

// loadAnalysis returns a command that runs the analysis over the input
// directory.
func (a *App) loadAnalysis() tea.Cmd {
	return func() tea.Msg {
		report, err := a.ports.Analyzer.Analyze(a.ctx, driving.AnalyzeRequest{
			InputDir: a.ports.InputDir,
			MaxLines: browseMaxLines,
		})
		return messages.AnalysisLoaded{Report: report, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.groupsView.SetDimensions(msg.Width, msg.Height)
		a.threadView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		if keyStr == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewGroups:
			if keymap.Matches(keyStr, a.keys.Quit) {
				return a, tea.Quit
			}
			if keymap.Matches(keyStr, a.keys.Help) {
				a.currentView = messages.ViewHelp
				return a, nil
			}
			if keymap.Matches(keyStr, a.keys.Reload) {
				a.groupsView.SetLoading()
				return a, a.loadAnalysis()
			}
			a.groupsView, cmd = a.groupsView.Update(msg)
			return a, cmd

		case messages.ViewThread:
			if keyStr == "q" {
				return a, tea.Quit
			}
			a.threadView, cmd = a.threadView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			if keymap.Matches(keyStr, a.keys.Back) || keymap.Matches(keyStr, a.keys.Quit) {
				a.currentView = messages.ViewGroups
			}
			return a, nil
		}
		return a, nil

	case messages.AnalysisLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.err = nil
			a.report = msg.Report
			a.outlines = sliceOutlines(msg.Report.Sample.Text)
		}
		a.groupsView, cmd = a.groupsView.Update(msg)
		return a, cmd

	case messages.GroupSelected:
		a.threadView.SetThread(msg.Stats, a.outlines[msg.Stats.GroupID])
		a.currentView = messages.ViewThread
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.groupsView, cmd = a.groupsView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewGroups:
		return a.groupsView.View()
	case messages.ViewThread:
		return a.threadView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.groupsView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(`Groups:
  j/k, ↑/↓    Navigate papers
  enter       Open the paper's thread
  r           Re-run the analysis
  q           Quit

Thread:
  j/k, ↑/↓    Scroll the outline
  g/G         Jump to top/bottom
  esc         Back to the group list

`)
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the browser.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Report returns the last loaded analysis report.
func (a *App) Report() *domain.AnalysisReport {
	return a.report
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.groupsView.SetDimensions(width, height)
	a.threadView.SetDimensions(width, height)
}

// sliceOutlines splits the rendered sample into per-group line blocks,
// keyed by group id. Header and blank separator lines are dropped.
func sliceOutlines(sample string) map[string][]string {
	outlines := make(map[string][]string)
	var current string

	for _, line := range strings.Split(sample, "\n") {
		if strings.HasPrefix(line, groupHeaderPrefix) {
			current = strings.TrimPrefix(line, groupHeaderPrefix)
			continue
		}
		if current == "" || strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			current = ""
			continue
		}
		outlines[current] = append(outlines[current], line)
	}
	return outlines
}
