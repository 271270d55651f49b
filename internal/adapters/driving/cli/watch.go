package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/core/services"
)

var (
	watchIn       string
	watchOut      string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run analysis whenever the input files change",
	Long: `Watches the input directory and re-runs the analysis after each
burst of JSONL changes. Useful while a long crawl is appending records.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchIn, "in", "data/records", "input directory with JSONL files")
	watchCmd.Flags().StringVar(&watchOut, "out", "out", "output directory for report files")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "settle time after a change (0 = default)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	analyzer, err := buildAnalyzer(true)
	if err != nil {
		return err
	}

	watcher := services.NewWatcher(analyzer, watchDebounce)
	return watcher.Watch(cmd.Context(), driving.AnalyzeRequest{
		InputDir: watchIn,
		OutDir:   watchOut,
	})
}
