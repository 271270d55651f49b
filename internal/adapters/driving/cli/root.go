// Package cli wires the cobra command tree to the core services.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/orca-labs/orca-cli/internal/adapters/driven/config/file"
	"github.com/orca-labs/orca-cli/internal/adapters/driven/storage/jsonl"
	"github.com/orca-labs/orca-cli/internal/adapters/driven/storage/sqlite"
	"github.com/orca-labs/orca-cli/internal/connectors/openreview"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string

	configStore *configfile.ConfigStore
	sqliteStore *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "orca",
	Short: "Crawl and analyse OpenReview discussion threads",
	Long: `orca crawls OpenReview venues, reconstructs review discussion
threads from the flat note exports, and reports per-paper thread
statistics alongside bounded thread samples.

Typical flow:
  orca crawl --venue ICLR.cc/2024/Conference --out data/iclr24
  orca analyze --in data/iclr24 --out out/iclr24
  orca browse --in data/iclr24`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		var err error
		configStore, err = configfile.NewConfigStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if sqliteStore != nil {
			_ = sqliteStore.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.orca)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openSQLite opens the metadata database lazily; repeated calls reuse
// the connection.
func openSQLite() (*sqlite.Store, error) {
	if sqliteStore != nil {
		return sqliteStore, nil
	}
	store, err := sqlite.NewStore(configStore.GetString(configfile.KeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}
	sqliteStore = store
	return store, nil
}

// newConnector builds the OpenReview connector from configuration.
func newConnector() *openreview.Connector {
	return openreview.New(openreview.Config{
		BaseURL:  configStore.GetString(configfile.KeyBaseURL),
		Token:    configStore.GetString(configfile.KeyToken),
		Username: configStore.GetString(configfile.KeyUsername),
		PageSize: configStore.GetInt(configfile.KeyPageSize),
	})
}

// openRecordDir opens a JSONL record store for a data directory.
func openRecordDir(dir string) (driven.RecordStore, error) {
	store, err := jsonl.NewStore(dir)
	if err != nil {
		return nil, err
	}
	return store, nil
}
