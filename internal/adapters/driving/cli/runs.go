package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run's statistics and sample",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	metadata, err := openSQLite()
	if err != nil {
		return err
	}

	list, err := metadata.ReportStore().ListReports(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("No stored runs. Run 'orca analyze' first.")
		return nil
	}

	for _, report := range list {
		cmd.Printf("%s  %s  %d records, %d groups\n",
			report.RunID,
			report.CreatedAt.Format("2006-01-02 15:04"),
			report.RecordCount,
			len(report.Stats))
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	metadata, err := openSQLite()
	if err != nil {
		return err
	}

	report, err := metadata.ReportStore().GetReport(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading run %s: %w", args[0], err)
	}

	cmd.Printf("Run %s (%s)\n", report.RunID, report.CreatedAt.Format("2006-01-02 15:04"))
	cmd.Printf("Records: %d, groups: %d\n\n", report.RecordCount, len(report.Stats))

	cmd.Println("group_id  records  roots  max_depth  mean_depth")
	for _, s := range report.Stats {
		cmd.Printf("%s  %d  %d  %d  %.3f\n",
			s.GroupID, s.RecordCount, s.RootCount, s.MaxDepth, s.MeanDepth)
	}

	if report.Sample.Text != "" {
		cmd.Println()
		cmd.Print(report.Sample.Text)
	}
	return nil
}
