package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	reportsJSON  bool
	reportsPurge bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports [file-id]",
	Short: "List saved highlight runs for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runReports,
}

func init() {
	reportsCmd.Flags().BoolVar(&reportsJSON, "json", false, "output runs as JSON")
	reportsCmd.Flags().BoolVar(&reportsPurge, "purge", false, "delete all saved runs for the file")
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, args []string) error {
	if reportStore == nil {
		return errors.New("report store not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if reportsPurge {
		if err := reportStore.DeleteRuns(ctx, args[0]); err != nil {
			return fmt.Errorf("delete runs: %w", err)
		}
		cmd.Println("Deleted saved runs.")
		return nil
	}

	runs, err := reportStore.ListRuns(ctx, args[0])
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if reportsJSON {
		return printJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No saved runs.")
		return nil
	}

	for _, r := range runs {
		flag := ""
		if r.Degraded {
			flag = " (degraded)"
		}
		cmd.Printf("  %s  %s  %d/%d located in %s%s\n",
			r.StartedAt.Format(time.RFC3339), r.FileName,
			r.FoundCount(), len(r.Outcomes),
			r.Duration.Round(time.Millisecond), flag)
	}
	return nil
}
