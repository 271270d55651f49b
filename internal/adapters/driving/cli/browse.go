package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/orca-labs/orca-cli/internal/adapters/driving/tui"
)

var browseIn string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse discussion threads interactively",
	Long: `Launch the interactive terminal browser over a record directory.

The browser lists every paper's discussion with its thread statistics
and opens a scrollable reply-tree outline per paper.

Controls:
  ↑/k, ↓/j - Navigate / scroll
  Enter    - Open the selected thread
  Esc      - Back
  r        - Re-run the analysis
  ?        - Toggle help
  q        - Quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseIn, "in", "data/records", "record directory to browse")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps a stack trace visible after the alt screen
	// is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in browser: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	analyzer, err := buildAnalyzer(true)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Analyzer: analyzer,
		InputDir: browseIn,
	})
	if err != nil {
		return fmt.Errorf("creating browser: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
