package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/me/gomote/internal/board"
	"github.com/me/gomote/internal/config"
	"github.com/me/gomote/internal/sched"
	"github.com/me/gomote/internal/server"
	"github.com/me/gomote/internal/sim"
	"github.com/me/gomote/internal/trace"
	"github.com/me/gomote/pkg/model"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		httpAddr string
		traceDB  string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler under synthetic traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTP.Addr = httpAddr
			}
			if cmd.Flags().Changed("trace-db") {
				cfg.Trace.DBPath = traceDB
			}
			if cmd.Flags().Changed("duration") {
				cfg.Sim.Duration = config.Duration(duration)
			}
			return runSim(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "Debug endpoint listen address (empty disables)")
	cmd.Flags().StringVar(&traceDB, "trace-db", "", "SQLite trace database path (empty disables)")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "Run length (0 runs until interrupted)")

	return cmd
}

func runSim(ctx context.Context, cfg config.Config) error {
	brd := board.NewHostBoard(logger)
	s, err := sched.New(schedConfig(cfg.Scheduler), brd, logger)
	if err != nil {
		return err
	}

	var rec trace.Recorder = trace.Nop{}
	if cfg.Trace.DBPath != "" {
		sq, err := trace.NewSQLite(cfg.Trace.DBPath, logger)
		if err != nil {
			return err
		}
		defer sq.Close()
		rec = sq
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	s.Start(workerCtx)
	defer func() {
		cancelWorkers()
		s.Wait()
	}()

	if cfg.HTTP.Addr != "" {
		httpSrv := &http.Server{Addr: cfg.HTTP.Addr, Handler: server.New(s, logger)}
		go func() {
			logger.Info("debug endpoint listening", "addr", cfg.HTTP.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug endpoint", "error", err)
			}
		}()
		defer httpSrv.Shutdown(context.Background())
	}

	g := sim.New(s, rec, logger)
	sum := g.Run(ctx, sim.Config{
		Duration:         cfg.Sim.Duration.Std(),
		RxInterval:       cfg.Sim.RxInterval.Std(),
		SendDoneInterval: cfg.Sim.SendDoneInterval.Std(),
		AppInterval:      cfg.Sim.AppInterval.Std(),
	})

	printSummary(os.Stdout, sum)
	if cfg.Trace.DBPath != "" {
		fmt.Fprintf(os.Stdout, "trace recorded to %s (gomote report --db %s)\n",
			cfg.Trace.DBPath, cfg.Trace.DBPath)
	}
	return nil
}

func printSummary(w io.Writer, sum model.RunSummary) {
	fmt.Fprintf(w, "run %s finished in %s\n", sum.RunID, sum.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  generated:  %s tasks\n", humanize.Comma(int64(sum.Generated)))
	for _, band := range []string{"rx", "senddone", "app"} {
		fmt.Fprintf(w, "  %-9s   %s executed\n", band+":", humanize.Comma(int64(sum.Executed[band])))
	}
	fmt.Fprintf(w, "  peak pool:  %d of %d slots\n", sum.PeakInPool, sum.PoolDepth)
}
