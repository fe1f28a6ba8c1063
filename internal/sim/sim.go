// Package sim drives the scheduler with synthetic mote traffic: received
// frames, transmit completions, and application events, each arriving on its
// own period. Every generated task records a trace event when it executes.
package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/me/gomote/internal/sched"
	"github.com/me/gomote/internal/trace"
	"github.com/me/gomote/pkg/model"
)

// Config sets the traffic mix and run length.
type Config struct {
	Duration         time.Duration // 0 means run until ctx cancels
	RxInterval       time.Duration
	SendDoneInterval time.Duration
	AppInterval      time.Duration
}

// Generator produces the synthetic load. One Generator drives one run.
type Generator struct {
	sched  *sched.Scheduler
	rec    trace.Recorder
	logger *slog.Logger

	runID     string
	seq       int64
	generated uint64
}

// New creates a generator for a fresh run id.
func New(s *sched.Scheduler, rec trace.Recorder, logger *slog.Logger) *Generator {
	return &Generator{
		sched:  s,
		rec:    rec,
		logger: logger.With("component", "sim"),
		runID:  uuid.New().String(),
	}
}

// RunID identifies this run in the trace store.
func (g *Generator) RunID() string {
	return g.runID
}

// Run generates traffic until the configured duration elapses or ctx is
// cancelled, waits for the scheduler to go quiet, and returns the run
// summary. The scheduler's workers must already be started.
func (g *Generator) Run(ctx context.Context, cfg Config) model.RunSummary {
	start := time.Now()
	runCtx := ctx
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	g.logger.Info("run started", "run_id", g.runID,
		"rx_interval", cfg.RxInterval,
		"senddone_interval", cfg.SendDoneInterval,
		"app_interval", cfg.AppInterval)

	rxTick := time.NewTicker(cfg.RxInterval)
	defer rxTick.Stop()
	sdTick := time.NewTicker(cfg.SendDoneInterval)
	defer sdTick.Stop()
	appTick := time.NewTicker(cfg.AppInterval)
	defer appTick.Stop()

	// Alternate the two priorities of each class so both halves of every
	// band see traffic.
	var rxFlip, sdFlip, appFlip bool

loop:
	for {
		select {
		case <-runCtx.Done():
			break loop
		case <-rxTick.C:
			if rxFlip {
				g.emit(sched.PrioRxProcess)
			} else {
				g.emit(sched.PrioRxNotif)
			}
			rxFlip = !rxFlip
		case <-sdTick.C:
			if sdFlip {
				g.emit(sched.PrioSendDoneTimer)
			} else {
				g.emit(sched.PrioSendDoneNotif)
			}
			sdFlip = !sdFlip
		case <-appTick.C:
			if appFlip {
				g.emit(sched.PrioAppTimer)
			} else {
				g.emit(sched.PrioAppEvent)
			}
			appFlip = !appFlip
		}
	}

	g.waitQuiesce()

	st := g.sched.Stats()
	executed := make(map[string]uint64, sched.NumBands)
	for b := sched.BandID(0); b < sched.NumBands; b++ {
		executed[b.String()] = st.Executed[b]
	}

	sum := model.RunSummary{
		RunID:      g.runID,
		Duration:   time.Since(start),
		Generated:  g.generated,
		Executed:   executed,
		PeakInPool: st.NumTasksMax,
		PoolDepth:  g.sched.Config().PoolDepth,
	}
	g.logger.Info("run finished", "run_id", g.runID, "generated", sum.Generated)
	return sum
}

// emit pushes one synthetic task and arranges for its trace event.
func (g *Generator) emit(prio sched.Priority) {
	band, _ := g.sched.Config().BandFor(prio)
	enqueued := time.Now().UTC()
	seq := g.seq
	g.seq++
	g.generated++

	g.sched.Push(func() {
		executed := time.Now().UTC()
		ev := model.TraceEvent{
			RunID:      g.runID,
			Seq:        seq,
			Band:       band.String(),
			Priority:   uint8(prio),
			EnqueuedAt: enqueued,
			ExecutedAt: executed,
			Latency:    executed.Sub(enqueued),
		}
		if err := g.rec.Record(context.Background(), ev); err != nil {
			g.logger.Warn("trace record failed", "seq", seq, "error", err)
		}
	}, prio)
}

// waitQuiesce waits for in-flight tasks to drain after generation stops.
func (g *Generator) waitQuiesce() {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if g.sched.Stats().NumTasksCur == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	g.logger.Warn("tasks still queued after quiesce window",
		"num_tasks_cur", g.sched.Stats().NumTasksCur)
}
