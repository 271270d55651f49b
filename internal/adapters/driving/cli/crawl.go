package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/orca-labs/orca-cli/internal/adapters/driven/config/file"
	"github.com/orca-labs/orca-cli/internal/core/services"
	"github.com/orca-labs/orca-cli/internal/normalisers/openreview"
)

var (
	crawlVenue string
	crawlLimit int
	crawlOut   string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl an OpenReview venue into JSONL files",
	Long: `Fetches a venue's submissions and every reply in each forum,
classifies the notes, and appends them to per-kind JSONL files.

The venue id and invitation names can be configured once in
~/.orca/config.toml or passed per run:

  orca crawl --venue ICLR.cc/2024/Conference --out data/iclr24
  orca crawl --venue NeurIPS.cc/2023/Conference --limit 50 --out data/tiny`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringVar(&crawlVenue, "venue", "", "OpenReview venue id (overrides config)")
	crawlCmd.Flags().IntVar(&crawlLimit, "limit", 0, "cap on submissions fetched (0 = no cap)")
	crawlCmd.Flags().StringVar(&crawlOut, "out", "data/records", "output directory for JSONL files")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	venue := configStore.Venue()
	if crawlVenue != "" {
		venue.ID = crawlVenue
	}
	if crawlLimit > 0 {
		venue.Limit = crawlLimit
	}
	if venue.ID == "" {
		return fmt.Errorf("no venue configured; pass --venue or set %s", configfile.KeyVenueID)
	}

	records, err := openRecordDir(crawlOut)
	if err != nil {
		return err
	}

	metadata, err := openSQLite()
	if err != nil {
		return err
	}

	connector := newConnector()
	defer connector.Close()

	if err := connector.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("connector validation failed: %w", err)
	}

	crawler := services.NewCrawler(connector, openreview.New(), records, metadata.CrawlStateStore())
	counts, err := crawler.Crawl(cmd.Context(), venue)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	cmd.Printf("Crawled %s into %s\n", venue.ID, crawlOut)
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
