// Package cli implements the gomote command tree.
package cli

import (
	"log/slog"

	"github.com/me/gomote/internal/config"
	"github.com/me/gomote/internal/logging"
	"github.com/me/gomote/internal/sched"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the gomote CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gomote",
		Short: "GoMote — host-side mote task scheduler",
		Long: "GoMote runs a low-power wireless node's fixed-capacity, priority-banded\n" +
			"task scheduler off-target: synthetic traffic in, execution traces out.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newReportCmd(),
	)

	return root
}

// schedConfig maps the config file's scheduler section onto the scheduler's
// own config type.
func schedConfig(c config.SchedulerConfig) sched.Config {
	return sched.Config{
		PoolDepth:        c.PoolDepth,
		RxBoundary:       sched.Priority(c.RxBoundary),
		SendDoneBoundary: sched.Priority(c.SendDoneBoundary),
		AppBoundary:      sched.Priority(c.AppBoundary),
	}
}
