package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orca-labs/orca-cli/internal/adapters/driven/reports"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/core/services"
)

var (
	analyzeIn       string
	analyzeOut      string
	analyzeMaxLines int
	analyzeSnippet  int
	analyzeFields   []string
	analyzeNoSave   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Reconstruct threads and write report files",
	Long: `Loads crawled records, rebuilds the reply forest per paper, and
writes per-paper statistics, enrichment CSVs, and a bounded thread
sample under the output directory. The finished run is also stored in
the local metadata database unless --no-save is given.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIn, "in", "data/records", "input directory with JSONL files")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "out", "output directory for report files")
	analyzeCmd.Flags().IntVar(&analyzeMaxLines, "max-lines", 0, "sample line ceiling (0 = default)")
	analyzeCmd.Flags().IntVar(&analyzeSnippet, "snippet-len", 0, "snippet length in runes (0 = default)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFields, "field", nil, "content fields tried first for snippets")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "skip persisting the run to the metadata database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	analyzer, err := buildAnalyzer(analyzeNoSave)
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(cmd.Context(), driving.AnalyzeRequest{
		InputDir:   analyzeIn,
		OutDir:     analyzeOut,
		MaxLines:   analyzeMaxLines,
		SnippetLen: analyzeSnippet,
		FieldOrder: analyzeFields,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	cmd.Printf("Run %s: %d records across %d groups\n",
		report.RunID, report.RecordCount, len(report.Stats))
	diag := report.Diagnostics
	if diag.Dropped > 0 || diag.Duplicates > 0 || diag.Unreached > 0 {
		cmd.Printf("Input defects: %d dropped, %d duplicates, %d unreached\n",
			diag.Dropped, diag.Duplicates, diag.Unreached)
	}
	if report.Sample.Truncated {
		cmd.Printf("Sample truncated at %d lines\n", report.Sample.Lines)
	}
	cmd.Printf("Report written to %s\n", analyzeOut)
	return nil
}

// buildAnalyzer assembles the analysis service with JSONL input and,
// unless disabled, sqlite report persistence.
func buildAnalyzer(noSave bool) (*services.Analyzer, error) {
	if noSave {
		return services.NewAnalyzer(nil, nil, reports.NewFileSink(), openRecordDir), nil
	}
	metadata, err := openSQLite()
	if err != nil {
		return nil, err
	}
	return services.NewAnalyzer(nil, metadata.ReportStore(), reports.NewFileSink(), openRecordDir), nil
}
