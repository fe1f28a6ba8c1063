package cli

import (
	"fmt"
	"os"

	"github.com/me/gomote/internal/config"
	"github.com/me/gomote/internal/sched"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the band layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			sc := schedConfig(cfg.Scheduler)
			if err := sc.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "pool depth: %d slots\n", sc.PoolDepth)
			for b := sched.BandID(0); b < sched.NumBands; b++ {
				lo, hi := sc.BandRange(b)
				fmt.Fprintf(os.Stdout, "band %-9s priorities [%3d, %3d)\n", b.String(), lo, hi)
			}
			fmt.Fprintln(os.Stdout, "configuration valid")
			return nil
		},
	}
}
