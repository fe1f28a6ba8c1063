package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/me/gomote/internal/trace"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		dbPath string
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a recorded trace database",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := trace.NewSQLite(dbPath, logger)
			if err != nil {
				return err
			}
			defer rec.Close()

			ctx := cmd.Context()
			if runID == "" {
				runs, err := rec.Runs(ctx)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					return fmt.Errorf("no runs recorded in %s", dbPath)
				}
				runID = runs[0]
			}

			stats, err := rec.Summarize(ctx, runID)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "run %s\n", runID)
			var total int64
			for _, bs := range stats {
				total += bs.Count
				fmt.Fprintf(os.Stdout, "  %-9s %8s tasks   avg latency %-12s max %s\n",
					bs.Band+":", humanize.Comma(bs.Count),
					bs.AvgLatency.Round(time.Microsecond),
					bs.MaxLatency.Round(time.Microsecond))
			}
			fmt.Fprintf(os.Stdout, "  total:    %8s tasks\n", humanize.Comma(total))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite trace database path")
	cmd.Flags().StringVar(&runID, "run", "", "Run id (default: most recent)")
	cmd.MarkFlagRequired("db")

	return cmd
}
