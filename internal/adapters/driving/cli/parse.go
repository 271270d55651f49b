package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/orca-labs/orca-cli/internal/adapters/driven/config/file"
	"github.com/orca-labs/orca-cli/internal/adapters/driven/grobid"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/core/services"
)

var (
	parseIn      string
	parseTEI     string
	parseOut     string
	parseWorkers int
	parseGrobid  string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert downloaded PDFs to Markdown via GROBID",
	Long: `Submits each PDF to a running GROBID server, stores the TEI XML,
and reduces it to a simple Markdown document (title, section heads,
paragraphs).

Start GROBID first, e.g.:
  docker run -t --rm -p 8070:8070 lfoppiano/grobid:0.8.0`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseIn, "in", "data/pdfs", "input directory with PDFs")
	parseCmd.Flags().StringVar(&parseTEI, "tei", "", "directory for TEI XML (default <out>/tei)")
	parseCmd.Flags().StringVar(&parseOut, "out", "out/md", "output directory for Markdown")
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "concurrent parses (0 = default)")
	parseCmd.Flags().StringVar(&parseGrobid, "grobid-url", "", "GROBID server URL (default from config or localhost)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	grobidURL := parseGrobid
	if grobidURL == "" {
		grobidURL = configStore.GetString(configfile.KeyGrobidURL)
	}

	parser := services.NewParser(grobid.New(grobidURL))
	parsed, failed, err := parser.ParseAll(cmd.Context(), driving.ParseRequest{
		InDir:   parseIn,
		TEIDir:  parseTEI,
		OutDir:  parseOut,
		Workers: parseWorkers,
	})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	cmd.Printf("Parsed %d PDFs to %s (%d failed)\n", parsed, parseOut, failed)
	return nil
}
