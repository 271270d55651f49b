package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/core/services"
)

var (
	downloadIn      string
	downloadOut     string
	downloadWorkers int
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download submission PDFs",
	Long: `Downloads the PDF for every crawled submission into the output
directory. Existing files are skipped, so interrupted runs can simply
be restarted.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadIn, "in", "data/records", "input directory with JSONL files")
	downloadCmd.Flags().StringVar(&downloadOut, "out", "data/pdfs", "output directory for PDFs")
	downloadCmd.Flags().IntVar(&downloadWorkers, "workers", 0, "concurrent downloads (0 = default)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	records, err := openRecordDir(downloadIn)
	if err != nil {
		return err
	}

	connector := newConnector()
	defer connector.Close()

	if err := connector.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("connector validation failed: %w", err)
	}

	downloader := services.NewDownloader(records, connector.Client())
	n, err := downloader.Download(cmd.Context(), driving.DownloadRequest{
		OutDir:  downloadOut,
		Workers: downloadWorkers,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	cmd.Printf("Downloaded %d PDFs to %s\n", n, downloadOut)
	return nil
}
