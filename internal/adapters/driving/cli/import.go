package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/orca-labs/orca-cli/internal/adapters/driven/config/file"
	"github.com/orca-labs/orca-cli/internal/connectors/filesystem"
	"github.com/orca-labs/orca-cli/internal/core/services"
	"github.com/orca-labs/orca-cli/internal/normalisers/openreview"
)

var (
	importFrom  string
	importOut   string
	importVenue string
	importLimit int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import saved OpenReview JSON exports into JSONL files",
	Long: `Reads raw OpenReview API responses saved as .json files and runs
them through the same normalisation and classification as a live crawl.
Useful for re-processing earlier downloads without network access.

  orca import --from exports/iclr24 --out data/iclr24`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "directory of saved .json note exports (required)")
	importCmd.Flags().StringVar(&importOut, "out", "data/records", "output directory for JSONL files")
	importCmd.Flags().StringVar(&importVenue, "venue", "", "venue id for classification (overrides config)")
	importCmd.Flags().IntVar(&importLimit, "limit", 0, "cap on imported notes (0 = no cap)")
	_ = importCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	venue := configStore.Venue()
	if importVenue != "" {
		venue.ID = importVenue
	}
	if importLimit > 0 {
		venue.Limit = importLimit
	}
	if venue.ID == "" {
		return fmt.Errorf("no venue configured; pass --venue or set %s", configfile.KeyVenueID)
	}

	records, err := openRecordDir(importOut)
	if err != nil {
		return err
	}

	source := filesystem.New(importFrom)
	defer source.Close()

	if err := source.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("import source invalid: %w", err)
	}

	crawler := services.NewCrawler(source, openreview.New(), records, nil)
	counts, err := crawler.Crawl(cmd.Context(), venue)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %s into %s\n", importFrom, importOut)
	cmd.Printf("  submissions:  %d\n", counts.Submissions)
	cmd.Printf("  reviews:      %d\n", counts.Reviews)
	cmd.Printf("  meta-reviews: %d\n", counts.MetaReviews)
	cmd.Printf("  decisions:    %d\n", counts.Decisions)
	cmd.Printf("  comments:     %d\n", counts.Comments)
	if counts.Errors > 0 {
		cmd.Printf("  errors:       %d\n", counts.Errors)
	}
	return nil
}
